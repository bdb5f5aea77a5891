package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/alexanderramin/listapp/internal/domain"
	"github.com/google/uuid"
)

// Call records one gateway invocation.
type Call struct {
	Method string
	ListID string
	ItemID string
	Order  []string
	Body   any
}

// FakeGateway is an in-memory stand-in for the REST API. It keeps lists in
// memory, records every call and can be told to fail the next call of a
// given method.
type FakeGateway struct {
	mu       sync.Mutex
	User     domain.User
	lists    map[string]*domain.List
	order    []string
	calls    []Call
	failures map[string][]error
	// accountGone is set by DeleteUser; the session no longer
	// authenticates afterwards.
	accountGone bool
}

// NewFakeGateway returns a gateway seeded with lists.
func NewFakeGateway(lists ...*domain.List) *FakeGateway {
	g := &FakeGateway{
		User:     domain.User{ID: "user-1", Name: "Test User", Email: "test@example.com"},
		lists:    map[string]*domain.List{},
		failures: map[string][]error{},
	}
	for _, l := range lists {
		g.Put(l)
	}
	return g
}

// Put stores a copy of l, replacing any list with the same ID.
func (g *FakeGateway) Put(l *domain.List) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.lists[l.ID]; !ok {
		g.order = append(g.order, l.ID)
	}
	g.lists[l.ID] = copyList(l)
}

// FailNext makes the next call of method return err. Queued failures are
// consumed in order.
func (g *FakeGateway) FailNext(method string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures[method] = append(g.failures[method], err)
}

// Calls returns the recorded calls in order.
func (g *FakeGateway) Calls() []Call {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Call, len(g.calls))
	copy(out, g.calls)
	return out
}

// CallsTo returns the recorded calls of one method.
func (g *FakeGateway) CallsTo(method string) []Call {
	var out []Call
	for _, c := range g.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Stored returns the server-side copy of a list with items sorted by
// position.
func (g *FakeGateway) Stored(listID string) (*domain.List, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.lists[listID]
	if !ok {
		return nil, false
	}
	return sortedCopy(l), true
}

// CurrentUser returns the server-side copy of the account.
func (g *FakeGateway) CurrentUser() domain.User {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.User
}

func (g *FakeGateway) record(c Call) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, c)
	if q := g.failures[c.Method]; len(q) > 0 {
		g.failures[c.Method] = q[1:]
		return q[0]
	}
	return nil
}

func (g *FakeGateway) GetUser(ctx context.Context) (domain.User, error) {
	if err := g.record(Call{Method: "GetUser"}); err != nil {
		return domain.User{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.accountGone {
		return domain.User{}, &domain.Error{Kind: domain.KindAuth, Status: 401}
	}
	return g.User, nil
}

func (g *FakeGateway) UpdateUser(ctx context.Context, p domain.UserPatch) error {
	if err := g.record(Call{Method: "UpdateUser", Body: p}); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.User = p.Apply(g.User)
	return nil
}

func (g *FakeGateway) DeleteUser(ctx context.Context) error {
	if err := g.record(Call{Method: "DeleteUser"}); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.accountGone = true
	g.lists = map[string]*domain.List{}
	g.order = nil
	return nil
}

func (g *FakeGateway) ListLists(ctx context.Context) ([]domain.ListSummary, error) {
	if err := g.record(Call{Method: "ListLists"}); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]domain.ListSummary, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.lists[id].Summary())
	}
	return out, nil
}

func (g *FakeGateway) GetList(ctx context.Context, listID string) (*domain.List, error) {
	if err := g.record(Call{Method: "GetList", ListID: listID}); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.lists[listID]
	if !ok {
		return nil, notFound()
	}
	return copyList(l), nil
}

func (g *FakeGateway) CreateList(ctx context.Context, in domain.ListCreate) (string, error) {
	if err := g.record(Call{Method: "CreateList", Body: in}); err != nil {
		return "", err
	}
	l := &domain.List{ID: uuid.New().String(), Title: in.Title, Description: in.Description, Items: []domain.Item{}}
	g.Put(l)
	return l.ID, nil
}

func (g *FakeGateway) UpdateList(ctx context.Context, listID string, p domain.ListPatch) error {
	if err := g.record(Call{Method: "UpdateList", ListID: listID, Body: p}); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.lists[listID]
	if !ok {
		return notFound()
	}
	if v, ok := p.Title.Value(); ok {
		l.Title = v
	}
	l.Description = domain.ApplyField(l.Description, p.Description)
	l.Version++
	return nil
}

func (g *FakeGateway) DeleteList(ctx context.Context, listID string) error {
	if err := g.record(Call{Method: "DeleteList", ListID: listID}); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.lists[listID]; !ok {
		return notFound()
	}
	delete(g.lists, listID)
	for i, id := range g.order {
		if id == listID {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return nil
}

func (g *FakeGateway) CreateItem(ctx context.Context, listID string, in domain.ItemCreate) (string, error) {
	if err := g.record(Call{Method: "CreateItem", ListID: listID, Body: in}); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.lists[listID]
	if !ok {
		return "", notFound()
	}
	it := domain.Item{ID: uuid.New().String(), Title: in.Title, Notes: in.Notes, ImagePath: in.ImagePath, Position: len(l.Items)}
	l.Items = append(l.Items, it)
	return it.ID, nil
}

func (g *FakeGateway) UpdateItem(ctx context.Context, listID, itemID string, p domain.ItemPatch) error {
	if err := g.record(Call{Method: "UpdateItem", ListID: listID, ItemID: itemID, Body: p}); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	it := g.item(listID, itemID)
	if it == nil {
		return notFound()
	}
	if v, ok := p.Title.Value(); ok {
		it.Title = v
	}
	it.Notes = domain.ApplyField(it.Notes, p.Notes)
	it.ImagePath = domain.ApplyField(it.ImagePath, p.ImagePath)
	return nil
}

func (g *FakeGateway) DeleteItem(ctx context.Context, listID, itemID string) error {
	if err := g.record(Call{Method: "DeleteItem", ListID: listID, ItemID: itemID}); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.lists[listID]
	if !ok || g.item(listID, itemID) == nil {
		return notFound()
	}
	sorted := sortedCopy(l).Items
	kept := sorted[:0]
	for _, it := range sorted {
		if it.ID != itemID {
			it.Position = len(kept)
			kept = append(kept, it)
		}
	}
	l.Items = kept
	return nil
}

func (g *FakeGateway) Reorder(ctx context.Context, listID string, itemOrder []string) error {
	order := append([]string(nil), itemOrder...)
	if err := g.record(Call{Method: "Reorder", ListID: listID, Order: order}); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.lists[listID]
	if !ok {
		return notFound()
	}
	if len(order) != len(l.Items) {
		return &domain.Error{Kind: domain.KindConflict, Message: "item order does not match list"}
	}
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for i := range l.Items {
		p, ok := pos[l.Items[i].ID]
		if !ok {
			return &domain.Error{Kind: domain.KindConflict, Message: "item order does not match list"}
		}
		l.Items[i].Position = p
	}
	return nil
}

func (g *FakeGateway) item(listID, itemID string) *domain.Item {
	l, ok := g.lists[listID]
	if !ok {
		return nil
	}
	for i := range l.Items {
		if l.Items[i].ID == itemID {
			return &l.Items[i]
		}
	}
	return nil
}

func notFound() error {
	return &domain.Error{Kind: domain.KindNotFound, Status: 404}
}

func copyList(l *domain.List) *domain.List {
	c := *l
	c.Items = append([]domain.Item(nil), l.Items...)
	if c.Items == nil {
		c.Items = []domain.Item{}
	}
	return &c
}

func sortedCopy(l *domain.List) *domain.List {
	c := copyList(l)
	sort.SliceStable(c.Items, func(i, j int) bool { return c.Items[i].Position < c.Items[j].Position })
	return c
}
