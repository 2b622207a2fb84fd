package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"easy-apply/internal/usecase"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

type ChromeOptions struct {
	Headless    bool
	UserDataDir string
	ExecPath    string
	// Args are extra command-line switches such as "--start-maximized" or
	// "--window-size=1280,900".
	Args []string
	// ActionTimeout bounds every click, key press and submit on an element;
	// zero leaves them bounded by the caller's context only.
	ActionTimeout time.Duration
}

// ChromeBrowser is one Chrome tab implementing usecase.Session. Callers may
// pass any context to its methods; their deadline and cancellation are
// carried over to the tab.
type ChromeBrowser struct {
	ctx           context.Context
	cancelTab     context.CancelFunc
	cancelAlloc   context.CancelFunc
	actionTimeout time.Duration
}

var _ usecase.Session = (*ChromeBrowser)(nil)

func NewChromeBrowser(ctx context.Context, o ChromeOptions) (*ChromeBrowser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", o.Headless),
		chromedp.Flag("disable-gpu", o.Headless),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if o.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(o.UserDataDir))
	}
	if o.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(o.ExecPath))
	}
	for _, a := range o.Args {
		name, value := parseSwitch(a)
		if name != "" {
			opts = append(opts, chromedp.Flag(name, value))
		}
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// ensure Chrome starts
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("start chrome: %w", err)
	}
	return &ChromeBrowser{ctx: tabCtx, cancelTab: cancelTab, cancelAlloc: cancelAlloc, actionTimeout: o.ActionTimeout}, nil
}

// parseSwitch turns "--name=value" into ("name", "value") and "--name" into
// ("name", true).
func parseSwitch(s string) (string, interface{}) {
	s = strings.TrimLeft(strings.TrimSpace(s), "-")
	if name, value, ok := strings.Cut(s, "="); ok {
		return name, value
	}
	return s, true
}

// Close shuts the tab and the browser process.
func (b *ChromeBrowser) Close() error {
	b.cancelTab()
	b.cancelAlloc()
	return nil
}

// scope derives a tab context that ends with ctx.
func (b *ChromeBrowser) scope(ctx context.Context) (context.Context, context.CancelFunc) {
	var (
		tctx   context.Context
		cancel context.CancelFunc
	)
	if dl, ok := ctx.Deadline(); ok {
		tctx, cancel = context.WithDeadline(b.ctx, dl)
	} else {
		tctx, cancel = context.WithCancel(b.ctx)
	}
	stop := context.AfterFunc(ctx, cancel)
	return tctx, func() {
		stop()
		cancel()
	}
}

// bounded limits an element action to the action timeout.
func (b *ChromeBrowser) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.actionTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, b.actionTimeout)
}

func (b *ChromeBrowser) run(ctx context.Context, actions ...chromedp.Action) error {
	tctx, cancel := b.scope(ctx)
	defer cancel()
	return chromedp.Run(tctx, actions...)
}

func (b *ChromeBrowser) Navigate(ctx context.Context, url string) error {
	return b.run(ctx, chromedp.Navigate(url))
}

func (b *ChromeBrowser) URL(ctx context.Context) (string, error) {
	var u string
	err := b.run(ctx, chromedp.Location(&u))
	return u, err
}

func (b *ChromeBrowser) Title(ctx context.Context) (string, error) {
	var t string
	err := b.run(ctx, chromedp.Title(&t))
	return t, err
}

func (b *ChromeBrowser) WaitFor(ctx context.Context, selector string, timeout time.Duration) (usecase.Element, error) {
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var nodes []*cdp.Node
	err := b.run(wctx, chromedp.Nodes(selector, &nodes, chromedp.ByQuery))
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}
		return nil, err
	}
	return b.first(nodes), nil
}

func (b *ChromeBrowser) Find(ctx context.Context, selector string) (usecase.Element, error) {
	var nodes []*cdp.Node
	if err := b.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQuery, chromedp.AtLeast(0))); err != nil {
		return nil, err
	}
	return b.first(nodes), nil
}

func (b *ChromeBrowser) FindAll(ctx context.Context, selector string) ([]usecase.Element, error) {
	var nodes []*cdp.Node
	if err := b.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return nil, err
	}
	out := make([]usecase.Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &chromeElement{b: b, id: n.NodeID})
	}
	return out, nil
}

func (b *ChromeBrowser) first(nodes []*cdp.Node) usecase.Element {
	if len(nodes) == 0 {
		return nil
	}
	return &chromeElement{b: b, id: nodes[0].NodeID}
}

// chromeElement addresses a DOM node by id. Scoped lookups and property
// reads go through the DOM and Runtime domains directly.
type chromeElement struct {
	b  *ChromeBrowser
	id cdp.NodeID
}

func (e *chromeElement) ids() []cdp.NodeID { return []cdp.NodeID{e.id} }

func (e *chromeElement) Find(ctx context.Context, selector string) (usecase.Element, error) {
	var id cdp.NodeID
	err := e.b.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		id, err = dom.QuerySelector(e.id, selector).Do(ctx)
		return err
	}))
	if err != nil || id == cdp.EmptyNodeID {
		return nil, err
	}
	return &chromeElement{b: e.b, id: id}, nil
}

func (e *chromeElement) FindAll(ctx context.Context, selector string) ([]usecase.Element, error) {
	var ids []cdp.NodeID
	err := e.b.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		ids, err = dom.QuerySelectorAll(e.id, selector).Do(ctx)
		return err
	}))
	if err != nil {
		return nil, err
	}
	out := make([]usecase.Element, 0, len(ids))
	for _, id := range ids {
		out = append(out, &chromeElement{b: e.b, id: id})
	}
	return out, nil
}

const precedingJS = `function(xpath) {
	return document.evaluate(xpath, this, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
}`

func (e *chromeElement) Preceding(ctx context.Context, xpath string) (usecase.Element, error) {
	var id cdp.NodeID
	err := e.b.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		res, err := e.callFunction(ctx, precedingJS, false, xpath)
		if err != nil {
			return err
		}
		if res.ObjectID == "" {
			return nil
		}
		defer runtime.ReleaseObject(res.ObjectID).Do(ctx)
		id, err = dom.RequestNode(res.ObjectID).Do(ctx)
		return err
	}))
	if err != nil || id == cdp.EmptyNodeID {
		return nil, err
	}
	return &chromeElement{b: e.b, id: id}, nil
}

func (e *chromeElement) Text(ctx context.Context) (string, error) {
	var s string
	err := e.eval(ctx, `function() { return this.innerText || this.textContent || ""; }`, &s)
	return strings.TrimSpace(s), err
}

func (e *chromeElement) Attribute(ctx context.Context, name string) (string, error) {
	var s string
	err := e.eval(ctx, `function(name) { return this.getAttribute(name) || ""; }`, &s, name)
	return s, err
}

func (e *chromeElement) Value(ctx context.Context) (string, error) {
	var s string
	err := e.eval(ctx, `function() { return this.value === undefined || this.value === null ? "" : String(this.value); }`, &s)
	return s, err
}

func (e *chromeElement) Checked(ctx context.Context) (bool, error) {
	var b bool
	err := e.eval(ctx, `function() { return !!this.checked; }`, &b)
	return b, err
}

func (e *chromeElement) Click(ctx context.Context) error {
	return e.act(ctx, "click", chromedp.Click(e.ids(), chromedp.ByNodeID))
}

func (e *chromeElement) Type(ctx context.Context, text string) error {
	return e.act(ctx, "type into", chromedp.SendKeys(e.ids(), text, chromedp.ByNodeID))
}

func (e *chromeElement) Submit(ctx context.Context) error {
	return e.act(ctx, "submit", chromedp.Submit(e.ids(), chromedp.ByNodeID))
}

// act runs a. chromedp waits for the node to become visible, so a hidden or
// detached node ends with ErrNotInteractable once the action timeout passes.
func (e *chromeElement) act(ctx context.Context, what string, a chromedp.Action) error {
	actx, cancel := e.b.bounded(ctx)
	defer cancel()
	err := e.b.run(actx, a)
	return interactErr(ctx, err, what, e.id)
}

// ErrNotInteractable reports an element action that did not complete within
// the action timeout.
var ErrNotInteractable = errors.New("element not interactable")

// interactErr maps an expired action timeout to ErrNotInteractable, leaving
// cancellation of the caller's context as is.
func interactErr(ctx context.Context, err error, what string, id cdp.NodeID) error {
	if err != nil && ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s node %d: %w", what, id, ErrNotInteractable)
	}
	return err
}

// eval calls fn with the element as this and decodes the returned value.
func (e *chromeElement) eval(ctx context.Context, fn string, out interface{}, args ...interface{}) error {
	return e.b.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		res, err := e.callFunction(ctx, fn, true, args...)
		if err != nil {
			return err
		}
		if len(res.Value) == 0 {
			return nil
		}
		return json.Unmarshal(res.Value, out)
	}))
}

func (e *chromeElement) callFunction(ctx context.Context, fn string, byValue bool, args ...interface{}) (*runtime.RemoteObject, error) {
	obj, err := dom.ResolveNode().WithNodeID(e.id).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve node %d: %w", e.id, err)
	}
	defer runtime.ReleaseObject(obj.ObjectID).Do(ctx)

	callArgs := make([]*runtime.CallArgument, 0, len(args))
	for _, a := range args {
		b, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		callArgs = append(callArgs, &runtime.CallArgument{Value: b})
	}

	res, exc, err := runtime.CallFunctionOn(fn).
		WithObjectID(obj.ObjectID).
		WithArguments(callArgs).
		WithReturnByValue(byValue).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	if exc != nil {
		return nil, exc
	}
	return res, nil
}
