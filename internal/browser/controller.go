package browser

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vidyasagar/treesurf/internal/history"
	"github.com/vidyasagar/treesurf/internal/logging"
)

// ErrStaleLoad is returned when a completion arrives for a load that has
// already finished or been replaced by a newer one.
var ErrStaleLoad = errors.New("browser: load superseded")

// boundLoads is how many finished loads keep accepting late titles.
const boundLoads = 64

// LoadKind says why a load was started.
type LoadKind int

const (
	LoadStart LoadKind = iota
	LoadNavigate
	LoadBack
	LoadForward
	LoadJump
	LoadReload
)

func (k LoadKind) String() string {
	switch k {
	case LoadStart:
		return "start"
	case LoadNavigate:
		return "navigate"
	case LoadBack:
		return "back"
	case LoadForward:
		return "forward"
	case LoadJump:
		return "jump"
	case LoadReload:
		return "reload"
	default:
		return fmt.Sprintf("LoadKind(%d)", int(k))
	}
}

// Silent reports whether a successful load of this kind leaves the tree
// shape alone. Only Navigate records a new node.
func (k LoadKind) Silent() bool {
	return k != LoadNavigate
}

// Load is a page request handed to the renderer. Seq identifies it in the
// completion callbacks. Node is the tree node being displayed for silent
// loads and NoNode for Navigate, whose node only exists once it succeeds.
type Load struct {
	Seq  uint64
	URL  string
	Kind LoadKind
	Node history.NodeID
}

// Silent is shorthand for l.Kind.Silent().
func (l Load) Silent() bool {
	return l.Kind.Silent()
}

type inflight struct {
	load  Load
	title string
}

// Controller sits between the renderer and the history tree. It decides
// which loads are recorded, and routes asynchronous titles to the node they
// belong to.
//
// At most one load is in flight. Starting a new load supersedes the
// previous one and its completion is then reported as ErrStaleLoad.
type Controller struct {
	mu      sync.Mutex
	tree    *history.Tree
	seq     uint64
	pending *inflight
	bound   *lru.Cache[uint64, history.NodeID]
	log     *slog.Logger
}

// NewController creates a controller over a fresh tree rooted at startURL.
func NewController(startURL, startTitle string) *Controller {
	bound, _ := lru.New[uint64, history.NodeID](boundLoads)
	return &Controller{
		tree:  history.New(startURL, startTitle),
		bound: bound,
		log:   logging.With("component", "controller"),
	}
}

// Tree exposes the history for read-only views.
func (c *Controller) Tree() *history.Tree {
	return c.tree
}

// Start loads the root page silently.
func (c *Controller) Start() Load {
	c.mu.Lock()
	defer c.mu.Unlock()

	root := c.tree.Root()
	return c.begin(root.URL, LoadStart, root.ID)
}

// Navigate starts a load that records a new node when it succeeds.
func (c *Controller) Navigate(url string) Load {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.begin(url, LoadNavigate, history.NoNode)
}

// Back moves to the parent node and loads it silently. It reports false at
// the root.
func (c *Controller) Back() (Load, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.tree.CanGoBack() {
		return Load{}, false
	}
	n := c.tree.Back()
	return c.begin(n.URL, LoadBack, n.ID), true
}

// Forward moves along the primary branch and loads it silently. It reports
// false at a leaf.
func (c *Controller) Forward() (Load, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.tree.CanGoForward() {
		return Load{}, false
	}
	n := c.tree.Forward()
	return c.begin(n.URL, LoadForward, n.ID), true
}

// Jump moves to id, promoting it within its parent, and loads it silently.
func (c *Controller) Jump(id history.NodeID) (Load, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, err := c.tree.JumpTo(id)
	if err != nil {
		return Load{}, fmt.Errorf("jumping to node %d: %w", id, err)
	}
	return c.begin(n.URL, LoadJump, n.ID), nil
}

// Reload loads the current node again without touching the tree.
func (c *Controller) Reload() Load {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.tree.Current()
	return c.begin(n.URL, LoadReload, n.ID)
}

// InFlight returns the load awaiting completion, if any.
func (c *Controller) InFlight() (Load, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil {
		return Load{}, false
	}
	return c.pending.load, true
}

// Succeeded completes load seq. A non-silent load records location as a new
// node; silent loads leave the tree shape unchanged. A title received while
// the load was pending is applied to the resulting node.
func (c *Controller) Succeeded(seq uint64, location string) (history.Node, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.take(seq)
	if err != nil {
		return history.Node{}, err
	}

	id := p.load.Node
	if !p.load.Silent() {
		if location == "" {
			location = p.load.URL
		}
		id = c.tree.Record(location).ID
	}

	if p.title != "" {
		c.tree.SetTitle(id, p.title)
	}
	c.bound.Add(seq, id)

	n, _ := c.tree.Node(id)
	c.log.Debug("load succeeded", "seq", seq, "kind", p.load.Kind.String(), "node", int(id), "url", n.URL)
	return n, nil
}

// Failed completes load seq without recording anything. The cursor is not
// moved back for silent loads; the user stays on the node they asked for.
func (c *Controller) Failed(seq uint64, loadErr error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.take(seq)
	if err != nil {
		return err
	}
	c.log.Warn("load failed", "seq", seq, "kind", p.load.Kind.String(), "url", p.load.URL, "error", loadErr)
	return nil
}

// TitleChanged delivers a page title for load seq. It may arrive before or
// after the load completes. It reports false when the title was dropped
// because seq is unknown or was superseded before it finished.
func (c *Controller) TitleChanged(seq uint64, title string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != nil && c.pending.load.Seq == seq {
		c.pending.title = title
		return true
	}
	if id, ok := c.bound.Get(seq); ok {
		return c.tree.Apply(history.TitleUpdate{Node: id, Title: title})
	}
	c.log.Debug("title dropped", "seq", seq)
	return false
}

// CanGoBack reports whether Back would move.
func (c *Controller) CanGoBack() bool {
	return c.tree.CanGoBack()
}

// CanGoForward reports whether Forward would move.
func (c *Controller) CanGoForward() bool {
	return c.tree.CanGoForward()
}

// Current returns the node being displayed.
func (c *Controller) Current() history.Node {
	return c.tree.Current()
}

func (c *Controller) begin(url string, kind LoadKind, node history.NodeID) Load {
	if c.pending != nil {
		c.log.Debug("load superseded", "seq", c.pending.load.Seq, "by", c.seq+1)
	}
	c.seq++
	l := Load{Seq: c.seq, URL: url, Kind: kind, Node: node}
	c.pending = &inflight{load: l}
	c.log.Info("load started", "seq", l.Seq, "kind", kind.String(), "url", url)
	return l
}

func (c *Controller) take(seq uint64) (*inflight, error) {
	if c.pending == nil || c.pending.load.Seq != seq {
		return nil, ErrStaleLoad
	}
	p := c.pending
	c.pending = nil
	return p, nil
}
