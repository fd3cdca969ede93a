// Package restore replays backup restore events from the provisioning log
// against the manifest items.
package restore

import (
	"fmt"

	"github.com/korunadevi/comfyui-nunchaku-sage-v1/internal/domain"
)

// Apply resets every item to pending and replays the restore events found in
// lines, oldest first. Items resolve by short key and, for git items, by
// normalized repo URL. Moving on to a new item implicitly completes the one
// that was installing.
//
// If an item is still installing after the scan, earlier pending items are
// promoted to done. The restore script processes the manifest sequentially,
// so anything before the in-flight item must have finished; this is an
// inference, not a guarantee, and can misreport for concurrent restores.
func Apply(items []domain.Item, lines []string) []domain.Item {
	if len(items) == 0 {
		return items
	}

	byKey := make(map[string]int, len(items))
	byRepo := make(map[string]int)
	for i, item := range items {
		byKey[item.Key] = i
		if item.Repo != "" {
			byRepo[item.Repo] = i
		}
	}
	resolve := func(key string) (int, bool) {
		if idx, ok := byKey[key]; ok {
			return idx, true
		}
		idx, ok := byRepo[domain.NormalizeRepo(key)]
		return idx, ok
	}

	for i := range items {
		items[i].Status = domain.ItemPending
	}

	active := -1
	begin := func(idx int) {
		if active >= 0 && active != idx && items[active].Status == domain.ItemInstalling {
			items[active].Status = domain.ItemDone
		}
		active = idx
		items[idx].Status = domain.ItemInstalling
	}

	for _, line := range lines {
		ev, ok := Classify(line)
		if !ok {
			continue
		}
		switch ev.Kind {
		case EventBeginRepo:
			if idx, ok := byRepo[domain.NormalizeRepo(ev.Key)]; ok {
				begin(idx)
			}
		case EventBeginName:
			if idx, ok := byKey[ev.Key]; ok {
				begin(idx)
			}
		case EventSkip:
			if idx, ok := resolve(ev.Key); ok {
				items[idx].Status = domain.ItemDone
			}
		case EventFail:
			if idx, ok := resolve(ev.Key); ok {
				items[idx].Status = domain.ItemFailed
			}
		case EventBulkFail:
			for _, key := range ev.Keys {
				if idx, ok := resolve(key); ok {
					items[idx].Status = domain.ItemFailed
				}
			}
		case EventAllDone:
			for i := range items {
				if items[i].Status == domain.ItemPending || items[i].Status == domain.ItemInstalling {
					items[i].Status = domain.ItemDone
				}
			}
			active = -1
		}
	}

	if active >= 0 && items[active].Status == domain.ItemInstalling {
		for i := 0; i < active; i++ {
			if items[i].Status == domain.ItemPending {
				items[i].Status = domain.ItemDone
			}
		}
	}
	return items
}

// Build combines the environment facts, manifest items and tail lines into
// the restore summary shown on the page.
func Build(facts domain.Facts, items []domain.Item, lines []string) domain.RestoreState {
	state := domain.RestoreState{
		Enabled: facts.RestoreEnabled && facts.BackupRepo != "",
		Repo:    facts.BackupRepo,
	}
	if state.Enabled {
		state.Items = Apply(items, lines)
		state.HasManifest = len(state.Items) > 0
	}

	switch {
	case facts.BackupRepo == "":
		state.Message = "Backup is not set."
	case !facts.RestoreEnabled:
		state.Message = "Backup is configured but RESTORE_BACKUP=0."
	case len(state.Items) == 0:
		state.Message = "Waiting for backup snapshot manifest..."
	default:
		completed := 0
		for _, item := range state.Items {
			if item.Status == domain.ItemDone {
				completed++
			}
		}
		state.Message = fmt.Sprintf("%d/%d nodes processed from %s.", completed, len(state.Items), facts.BackupRepo)
	}
	return state
}
