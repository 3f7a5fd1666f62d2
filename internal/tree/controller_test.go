package tree

import (
	"context"
	"testing"

	"arbor/internal/model"
)

func newTestController(settings *fakeSettings, folders ...model.Folder) *Controller {
	return NewController(settings, &fakeView{}, &fakeTelemetry{}, testClassifier(false), folders)
}

func loadedManager(folders ...FolderManager) *fakeManager {
	return &fakeManager{state: StateRepositoriesLoaded, folders: folders}
}

func TestInitializeTwicePanics(t *testing.T) {
	t.Parallel()
	c := newTestController(&fakeSettings{}, model.Folder{Name: "a"})
	c.Initialize(loadedManager())

	defer func() {
		if recover() == nil {
			t.Error("second Initialize did not panic")
		}
	}()
	c.Initialize(loadedManager())
}

func TestInitializeTriggersFirstResolutionPass(t *testing.T) {
	t.Parallel()
	c := newTestController(&fakeSettings{}, model.Folder{Name: "a"})

	var fires []Node
	c.OnDidChangeTreeData(func(n Node) { fires = append(fires, n) })

	c.Initialize(loadedManager())

	if len(fires) != 1 || fires[0] != nil {
		t.Errorf("fires after Initialize: got %v, want one whole-tree event", fires)
	}
}

func TestManagerAndFolderChangesInvalidateWholeTree(t *testing.T) {
	t.Parallel()
	folder := &fakeFolder{git: []model.Remote{{Name: "origin"}}}
	mgr := loadedManager(folder)
	c := newTestController(&fakeSettings{}, model.Folder{Name: "a"})
	c.Initialize(mgr)

	var fires []Node
	c.OnDidChangeTreeData(func(n Node) { fires = append(fires, n) })

	mgr.fireChange()
	folder.fireChange()

	if len(fires) != 2 {
		t.Fatalf("fires: got %d, want 2", len(fires))
	}
	for i, n := range fires {
		if n != nil {
			t.Errorf("fire %d: got %v, want nil (whole tree)", i, n)
		}
	}
}

func TestHandleSettingChangeFiresOnlyForTreeSettings(t *testing.T) {
	t.Parallel()
	c := newTestController(&fakeSettings{}, model.Folder{Name: "a"})

	var fires int
	c.OnDidChangeTreeData(func(Node) { fires++ })

	c.HandleSettingChange(SettingRemotes)
	c.HandleSettingChange(SettingQueries)
	c.HandleSettingChange(SettingFileListLayout)
	c.HandleSettingChange("logging.level")

	if fires != 3 {
		t.Errorf("fires: got %d, want 3", fires)
	}
}

func TestRefreshNodeDeliversNodeWithoutRootResolution(t *testing.T) {
	t.Parallel()
	c := newTestController(&fakeSettings{}, model.Folder{Name: "a"})

	var fires []Node
	c.OnDidChangeTreeData(func(n Node) { fires = append(fires, n) })

	node := NewPlaceholder(NoRemotes)
	c.RefreshNode(node)
	c.Refresh()

	if len(fires) != 2 {
		t.Fatalf("fires: got %d, want 2", len(fires))
	}
	if fires[0] != Node(node) {
		t.Errorf("fires[0]: got %v, want the refreshed node", fires[0])
	}
	if fires[1] != nil {
		t.Errorf("fires[1]: got %v, want nil (whole tree)", fires[1])
	}
}

func TestGetChildrenRootBeforeInitialize(t *testing.T) {
	t.Parallel()
	c := newTestController(&fakeSettings{})

	roots, err := c.GetChildren(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetChildren: %v", err)
	}
	if got := reasonsOf(roots); len(got) != 1 || got[0] != NoOpenFolder {
		t.Errorf("reasons: got %v, want [NoOpenFolder]", got)
	}
}

func TestRootPassDisposesSupersededFolderSubscriptions(t *testing.T) {
	t.Parallel()
	fa := &fakeFolder{
		folder:   model.Folder{Name: "alpha"},
		provider: []model.Remote{{Name: "origin"}},
		git:      []model.Remote{{Name: "origin"}},
	}
	fb := &fakeFolder{folder: model.Folder{Name: "beta"}, git: []model.Remote{{Name: "origin"}}}
	mgr := loadedManager(fa, fb)

	c := newTestController(&fakeSettings{}, model.Folder{Name: "alpha"}, model.Folder{Name: "beta"})
	c.Initialize(mgr)
	initialSubs := fa.liveListeners()

	if _, err := c.GetChildren(context.Background(), nil); err != nil {
		t.Fatalf("first root pass: %v", err)
	}
	afterFirst := fa.liveListeners()
	if afterFirst != initialSubs+1 {
		t.Fatalf("listeners after first pass: got %d, want %d", afterFirst, initialSubs+1)
	}

	if _, err := c.GetChildren(context.Background(), nil); err != nil {
		t.Fatalf("second root pass: %v", err)
	}
	if got := fa.liveListeners(); got != afterFirst {
		t.Errorf("listeners after second pass: got %d, want %d (old generation released)", got, afterFirst)
	}
}

func TestFolderChangeAfterRootPassFiresNodeGranular(t *testing.T) {
	t.Parallel()
	fa := &fakeFolder{
		folder:   model.Folder{Name: "alpha"},
		provider: []model.Remote{{Name: "origin"}},
		git:      []model.Remote{{Name: "origin"}},
	}
	fb := &fakeFolder{folder: model.Folder{Name: "beta"}, git: []model.Remote{{Name: "origin"}}}
	mgr := loadedManager(fa, fb)

	c := newTestController(&fakeSettings{}, model.Folder{Name: "alpha"}, model.Folder{Name: "beta"})
	c.Initialize(mgr)

	roots, err := c.GetChildren(context.Background(), nil)
	if err != nil {
		t.Fatalf("root pass: %v", err)
	}

	var fires []Node
	c.OnDidChangeTreeData(func(n Node) { fires = append(fires, n) })

	fa.fireChange()

	// The initialize-time subscription fires whole-tree, the generation
	// subscription fires the folder node; both must arrive.
	var sawNode, sawNil bool
	for _, n := range fires {
		if n == nil {
			sawNil = true
		} else if n == roots[0] {
			sawNode = true
		}
	}
	if !sawNil || !sawNode {
		t.Errorf("fires: got %v, want both a whole-tree and a node-granular event for roots[0]", fires)
	}
}

func TestDeepGetChildrenShortCircuitsWhenRemotesGone(t *testing.T) {
	t.Parallel()
	folder := &fakeFolder{} // no remotes at all
	mgr := loadedManager(folder)
	c := newTestController(&fakeSettings{}, model.Folder{Name: "a"})
	c.Initialize(mgr)

	category := NewCategoryNode(nil, folder, allOpenQuery, nil, nil)
	kids, err := c.GetChildren(context.Background(), category)
	if err != nil {
		t.Fatalf("GetChildren: %v", err)
	}
	if got := reasonsOf(kids); len(got) != 1 || got[0] != Empty {
		t.Errorf("reasons: got %v, want [Empty] even at depth", got)
	}
}

func TestDeepGetChildrenDelegatesToNode(t *testing.T) {
	t.Parallel()
	// End-to-end shape of spec property: the remote-less folder in a mixed
	// workspace still answers through its own builder, never Empty.
	withRemote := &fakeFolder{
		folder:   model.Folder{Name: "with"},
		provider: []model.Remote{{Name: "origin"}},
		git:      []model.Remote{{Name: "origin"}},
	}
	withoutRemote := &fakeFolder{
		folder: model.Folder{Name: "without"},
		pages:  map[int][]model.PullRequest{1: {{Number: 7, Title: "fix"}}},
	}
	mgr := loadedManager(withRemote, withoutRemote)

	c := newTestController(&fakeSettings{}, model.Folder{Name: "with"}, model.Folder{Name: "without"})
	c.Initialize(mgr)

	roots, err := c.GetChildren(context.Background(), nil)
	if err != nil {
		t.Fatalf("root pass: %v", err)
	}
	if len(roots) != 2 {
		t.Fatalf("roots: got %d, want 2", len(roots))
	}

	categories, err := c.GetChildren(context.Background(), roots[1])
	if err != nil {
		t.Fatalf("folder children: %v", err)
	}
	if len(categories) == 0 {
		t.Fatal("folder children: got none, want category nodes")
	}

	prs, err := c.GetChildren(context.Background(), categories[0])
	if err != nil {
		t.Fatalf("category children: %v", err)
	}
	if got := reasonsOf(prs); len(got) != 0 {
		t.Fatalf("category children: got placeholders %v, want the folder's own results", got)
	}
	if len(prs) != 1 || prs[0].Kind() != KindPullRequest {
		t.Errorf("category children: got %v, want one pull-request node", prs)
	}
}

func TestCloseReleasesManagerSubscriptions(t *testing.T) {
	t.Parallel()
	folder := &fakeFolder{git: []model.Remote{{Name: "origin"}}}
	mgr := loadedManager(folder)
	c := newTestController(&fakeSettings{}, model.Folder{Name: "a"})
	c.Initialize(mgr)

	var fires int
	c.OnDidChangeTreeData(func(Node) { fires++ })

	c.Close()
	mgr.fireChange()
	folder.fireChange()

	if fires != 0 {
		t.Errorf("fires after Close: got %d, want 0", fires)
	}
}
