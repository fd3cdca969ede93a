package restore

import (
	"testing"

	"github.com/korunadevi/comfyui-nunchaku-sage-v1/internal/domain"
)

func testItems() []domain.Item {
	return []domain.Item{
		{Key: "nodeX", Name: "nodeX", Source: domain.SourceGit, Repo: "https://github.com/user/nodeX"},
		{Key: "nodeY", Name: "nodeY", Source: domain.SourceGit, Repo: "https://github.com/user/nodeY"},
		{Key: "nodeZ", Name: "nodeZ", Source: domain.SourceCNR, Version: "1.0.0"},
	}
}

func status(t *testing.T, items []domain.Item, key string) domain.ItemStatus {
	t.Helper()
	for _, item := range items {
		if item.Key == key {
			return item.Status
		}
	}
	t.Fatalf("item %s not found", key)
	return ""
}

func TestApplyBeginThenSkipIsDone(t *testing.T) {
	t.Parallel()

	lines := []string{
		"[restore] cloning https://github.com/user/nodeX.git",
		"[restore] nodeX already present",
		"[restore] cloning https://github.com/user/nodeY",
	}
	items := Apply(testItems(), lines)
	if got := status(t, items, "nodeX"); got != domain.ItemDone {
		t.Fatalf("nodeX = %s, want done", got)
	}
	if got := status(t, items, "nodeY"); got != domain.ItemInstalling {
		t.Fatalf("nodeY = %s, want installing", got)
	}
	if got := status(t, items, "nodeZ"); got != domain.ItemPending {
		t.Fatalf("nodeZ = %s, want pending", got)
	}
}

func TestApplyImplicitDoneOnMoveOn(t *testing.T) {
	t.Parallel()

	lines := []string{
		"[restore] cloning https://github.com/user/nodeX",
		"[restore] cloning https://github.com/user/nodeY",
	}
	items := Apply(testItems(), lines)
	if got := status(t, items, "nodeX"); got != domain.ItemDone {
		t.Fatalf("nodeX = %s, want done (implicit completion)", got)
	}
	if got := status(t, items, "nodeY"); got != domain.ItemInstalling {
		t.Fatalf("nodeY = %s, want installing", got)
	}
}

func TestApplyBeginByName(t *testing.T) {
	t.Parallel()

	items := Apply(testItems(), []string{"[restore] cnr install nodeZ"})
	if got := status(t, items, "nodeZ"); got != domain.ItemInstalling {
		t.Fatalf("nodeZ = %s, want installing", got)
	}
	// Sequential-processing heuristic: earlier pendings are presumed done.
	if got := status(t, items, "nodeX"); got != domain.ItemDone {
		t.Fatalf("nodeX = %s, want done via promotion", got)
	}
	if got := status(t, items, "nodeY"); got != domain.ItemDone {
		t.Fatalf("nodeY = %s, want done via promotion", got)
	}
}

func TestApplyError(t *testing.T) {
	t.Parallel()

	lines := []string{
		"[restore] cloning https://github.com/user/nodeX",
		"[restore][err git] nodeX",
	}
	items := Apply(testItems(), lines)
	if got := status(t, items, "nodeX"); got != domain.ItemFailed {
		t.Fatalf("nodeX = %s, want failed", got)
	}
}

func TestApplyBulkFailList(t *testing.T) {
	t.Parallel()

	lines := []string{"[restore][warn] some nodes failed: [nodeX, nodeZ]"}
	items := Apply(testItems(), lines)
	if got := status(t, items, "nodeX"); got != domain.ItemFailed {
		t.Fatalf("nodeX = %s, want failed", got)
	}
	if got := status(t, items, "nodeZ"); got != domain.ItemFailed {
		t.Fatalf("nodeZ = %s, want failed", got)
	}
	if got := status(t, items, "nodeY"); got != domain.ItemPending {
		t.Fatalf("nodeY = %s, want untouched pending", got)
	}
}

func TestApplyAllDonePromotesNonTerminal(t *testing.T) {
	t.Parallel()

	lines := []string{
		"[restore] cloning https://github.com/user/nodeX",
		"[restore][err git] nodeY",
		"[restore] nodes & settings done",
	}
	items := Apply(testItems(), lines)
	if got := status(t, items, "nodeX"); got != domain.ItemDone {
		t.Fatalf("nodeX = %s, want done after all-done marker", got)
	}
	if got := status(t, items, "nodeY"); got != domain.ItemFailed {
		t.Fatalf("nodeY = %s, want failed preserved", got)
	}
	if got := status(t, items, "nodeZ"); got != domain.ItemDone {
		t.Fatalf("nodeZ = %s, want done after all-done marker", got)
	}
}

func TestApplyUnknownKeysIgnored(t *testing.T) {
	t.Parallel()

	lines := []string{
		"[restore] cloning https://github.com/other/unknown",
		"[restore] mystery already present",
		"[restore][err] nobody",
	}
	items := Apply(testItems(), lines)
	for _, item := range items {
		if item.Status != domain.ItemPending {
			t.Fatalf("%s = %s, want pending (unknown keys ignored)", item.Key, item.Status)
		}
	}
}

func TestApplyStatusResetEachPoll(t *testing.T) {
	t.Parallel()

	items := testItems()
	items[0].Status = domain.ItemFailed
	items = Apply(items, nil)
	if got := status(t, items, "nodeX"); got != domain.ItemPending {
		t.Fatalf("nodeX = %s, want pending after reset", got)
	}
}

func TestBuildMessages(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		facts domain.Facts
		items []domain.Item
		lines []string
		want  string
	}{
		{
			name: "no backup configured",
			want: "Backup is not set.",
		},
		{
			name:  "restore disabled",
			facts: domain.Facts{BackupRepo: "user/backup"},
			want:  "Backup is configured but RESTORE_BACKUP=0.",
		},
		{
			name:  "waiting for manifest",
			facts: domain.Facts{BackupRepo: "user/backup", RestoreEnabled: true},
			want:  "Waiting for backup snapshot manifest...",
		},
		{
			name:  "progress counts",
			facts: domain.Facts{BackupRepo: "user/backup", RestoreEnabled: true},
			items: testItems(),
			lines: []string{
				"[restore] nodeX already present",
				"[restore] nodeY already present",
			},
			want: "2/3 nodes processed from user/backup.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Build(tc.facts, tc.items, tc.lines)
			if got.Message != tc.want {
				t.Fatalf("message = %q, want %q", got.Message, tc.want)
			}
		})
	}
}

func TestBuildDisabledCarriesNoItems(t *testing.T) {
	t.Parallel()

	state := Build(domain.Facts{BackupRepo: "user/backup"}, testItems(), nil)
	if state.Enabled {
		t.Fatalf("restore should be disabled")
	}
	if len(state.Items) != 0 {
		t.Fatalf("disabled restore should not expose items, got %d", len(state.Items))
	}
}

func TestClassifyTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		line string
		kind EventKind
		key  string
		ok   bool
	}{
		{"[restore] cloning https://github.com/u/r.git", EventBeginRepo, "https://github.com/u/r.git", true},
		{"[restore] cnr install my-node", EventBeginName, "my-node", true},
		{"[restore] my-node already present", EventSkip, "my-node", true},
		{"[restore][err clone] my-node", EventFail, "my-node", true},
		{"[restore] nodes & settings done", EventAllDone, "", true},
		{"STAGE: Updating ComfyUI core", 0, "", false},
	}
	for _, tc := range cases {
		ev, ok := Classify(tc.line)
		if ok != tc.ok {
			t.Fatalf("Classify(%q) ok = %v, want %v", tc.line, ok, tc.ok)
		}
		if !ok {
			continue
		}
		if ev.Kind != tc.kind || ev.Key != tc.key {
			t.Fatalf("Classify(%q) = %+v, want kind=%v key=%q", tc.line, ev, tc.kind, tc.key)
		}
	}
}

func TestClassifyBulkFail(t *testing.T) {
	t.Parallel()

	ev, ok := Classify("[restore][warn] restore failed: [a, b ,c]")
	if !ok || ev.Kind != EventBulkFail {
		t.Fatalf("expected bulk fail event, got %+v ok=%v", ev, ok)
	}
	if len(ev.Keys) != 3 || ev.Keys[0] != "a" || ev.Keys[1] != "b" || ev.Keys[2] != "c" {
		t.Fatalf("unexpected keys: %q", ev.Keys)
	}
}
