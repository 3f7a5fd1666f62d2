package tree

// RootStateResolver decides, from the data-source state and configuration,
// what the root of the tree currently shows.
type RootStateResolver struct {
	settings   Settings
	view       View
	telemetry  Telemetry
	classifier *EnvClassifier
}

func NewRootStateResolver(settings Settings, view View, telemetry Telemetry, classifier *EnvClassifier) *RootStateResolver {
	return &RootStateResolver{settings: settings, view: view, telemetry: telemetry, classifier: classifier}
}

// Resolve produces the root-level node set. Priority order is load-bearing:
// authentication and initialization states must suppress remote-configuration
// prompts, and "no remotes configured" is checked before assuming real data
// exists.
func (r *RootStateResolver) Resolve(mgr Manager, openFolders int) []Node {
	if mgr == nil {
		if openFolders == 0 {
			return []Node{NewPlaceholder(NoOpenFolder)}
		}
		return []Node{NewPlaceholder(NoGitRepositories)}
	}

	if mgr.State() == StateInitializing {
		return []Node{NewPlaceholder(Initializing)}
	}

	folders := mgr.Folders()

	if !anyProviderRemote(folders) {
		return r.resolveNeedsRemotes(mgr)
	}

	var roots []Node
	if len(folders) == 1 {
		// A single-folder workspace is rendered flat: categories become the
		// roots, with no wrapping folder node.
		roots = CategoriesFor(nil, folders[0], r.settings, r.view, r.telemetry)
	} else {
		roots = make([]Node, len(folders))
		for i, f := range folders {
			roots[i] = NewWorkspaceFolderNode(f, r.settings, r.view, r.telemetry, r.classifier)
		}
	}

	// No folder has any version-control remote at all: nothing the roots
	// could show, regardless of how they resolved.
	if !anyGitRemote(folders) {
		return []Node{NewPlaceholder(Empty)}
	}
	return roots
}

func (r *RootStateResolver) resolveNeedsRemotes(mgr Manager) []Node {
	// The auth prompt is shown elsewhere; an empty root keeps the view quiet.
	if mgr.State() == StateNeedsAuthentication {
		return []Node{}
	}
	if r.settings.RemotesAllowListConfigured() {
		return []Node{
			NewPlaceholder(NoMatchingRemotes),
			NewPlaceholder(ConfigureRemotes),
		}
	}
	return []Node{NewPlaceholder(NoRemotes)}
}
