package services

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/eventbus"
	"maintenance-system/pkg/types"
)

type memCache struct {
	mu     sync.Mutex
	data   map[string]string
	getErr error
	sets   int
	ttls   map[string]time.Duration
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	switch v := value.(type) {
	case string:
		c.data[key] = v
	case []byte:
		c.data[key] = string(v)
	default:
		return errors.New("unsupported cache value")
	}
	return nil
}

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return "", c.getErr
	}
	v, ok := c.data[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := strconv.ParseInt(c.data[key], 10, 64)
	n++
	c.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (c *memCache) Expire(_ context.Context, key string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[key]; !ok {
		return nil
	}
	c.ttls[key] = ttl
	return nil
}

type fakeUserRepo struct {
	users map[uint64]*entities.User
}

func (r *fakeUserRepo) Search(context.Context, uint64, types.SearchCriteria) ([]entities.User, uint64, error) {
	out := make([]entities.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint64) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, _ repositories.Querier, ids []uint64) ([]entities.User, error) {
	out := make([]entities.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok && u.DeletedAt == nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Create(_ context.Context, u *entities.User) error {
	u.ID = uint64(len(r.users) + 1)
	r.users[u.ID] = u
	return nil
}

type fakeRoleRepo struct {
	roles map[uint64]*entities.Role
	calls int
}

func (r *fakeRoleRepo) FindByID(_ context.Context, id uint64) (*entities.Role, error) {
	r.calls++
	role, ok := r.roles[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *role
	return &cp, nil
}

func (r *fakeRoleRepo) FindByCode(_ context.Context, companyID uint64, code entities.RoleCode) (*entities.Role, error) {
	for _, role := range r.roles {
		if role.CompanyID == companyID && role.Code == code {
			return role, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeRoleRepo) Upsert(_ context.Context, _ pgx.Tx, role *entities.Role) error {
	r.roles[role.ID] = role
	return nil
}

type fakeCompanyRepo struct {
	companies map[uint64]*entities.Company
}

func (r *fakeCompanyRepo) FindByID(_ context.Context, id uint64) (*entities.Company, error) {
	c, ok := r.companies[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return c, nil
}

func (r *fakeCompanyRepo) Create(_ context.Context, _ pgx.Tx, name, planCode string) (uint64, error) {
	id := uint64(len(r.companies) + 1)
	r.companies[id] = &entities.Company{ID: id, Name: name, Subscription: entities.Subscription{Plan: entities.SubscriptionPlan{Code: planCode}}}
	return id, nil
}

type fakeWorkOrderRepo struct {
	orders    map[uint64]*entities.WorkOrder
	users     map[uint64]*entities.User
	assignees map[uint64][]uint64
	deleted   []uint64
	lastCrit  types.SearchCriteria
	total     uint64
}

func newFakeWorkOrderRepo(users map[uint64]*entities.User) *fakeWorkOrderRepo {
	return &fakeWorkOrderRepo{
		orders:    make(map[uint64]*entities.WorkOrder),
		users:     users,
		assignees: make(map[uint64][]uint64),
	}
}

func (r *fakeWorkOrderRepo) Search(_ context.Context, companyID uint64, c types.SearchCriteria) ([]entities.WorkOrder, uint64, error) {
	r.lastCrit = c
	out := make([]entities.WorkOrder, 0)
	for _, wo := range r.orders {
		if wo.CompanyID == companyID {
			out = append(out, *wo)
		}
	}
	total := r.total
	if total == 0 {
		total = uint64(len(out))
	}
	return out, total, nil
}

func (r *fakeWorkOrderRepo) FindByID(_ context.Context, companyID, id uint64) (*entities.WorkOrder, error) {
	wo, ok := r.orders[id]
	if !ok || wo.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	cp := *wo
	cp.AssignedTo = nil
	for _, uid := range r.assignees[id] {
		if u, ok := r.users[uid]; ok {
			cp.AssignedTo = append(cp.AssignedTo, *u)
		}
	}
	return &cp, nil
}

func (r *fakeWorkOrderRepo) Create(_ context.Context, _ pgx.Tx, wo *entities.WorkOrder, assigneeIDs []uint64) error {
	wo.ID = uint64(len(r.orders) + 1)
	wo.CustomID = "WO" + strconv.FormatUint(wo.ID, 10)
	cp := *wo
	r.orders[wo.ID] = &cp
	r.assignees[wo.ID] = assigneeIDs
	return nil
}

func (r *fakeWorkOrderRepo) Update(_ context.Context, _ pgx.Tx, wo *entities.WorkOrder) error {
	if _, ok := r.orders[wo.ID]; !ok {
		return apperrors.ErrNotFound
	}
	cp := *wo
	r.orders[wo.ID] = &cp
	return nil
}

func (r *fakeWorkOrderRepo) ReplaceAssignees(_ context.Context, _ pgx.Tx, id uint64, userIDs []uint64) error {
	r.assignees[id] = userIDs
	return nil
}

func (r *fakeWorkOrderRepo) SoftDelete(_ context.Context, companyID, id uint64) error {
	if _, ok := r.orders[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.orders, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeTeamRepo struct {
	teams map[uint64]*entities.Team
}

func (r *fakeTeamRepo) FindByID(_ context.Context, companyID, id uint64) (*entities.Team, error) {
	t, ok := r.teams[id]
	if !ok || t.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

type fakeAssetRepo struct {
	assets map[uint64]*entities.Asset
}

func (r *fakeAssetRepo) Search(_ context.Context, companyID uint64, _ types.SearchCriteria) ([]entities.Asset, uint64, error) {
	out := make([]entities.Asset, 0)
	for _, a := range r.assets {
		if a.CompanyID == companyID {
			out = append(out, *a)
		}
	}
	return out, uint64(len(out)), nil
}

func (r *fakeAssetRepo) FindByID(_ context.Context, companyID, id uint64) (*entities.Asset, error) {
	a, ok := r.assets[id]
	if !ok || a.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAssetRepo) Create(_ context.Context, a *entities.Asset) error {
	a.ID = uint64(len(r.assets) + 1)
	a.CustomID = "A" + strconv.FormatUint(a.ID, 10)
	cp := *a
	r.assets[a.ID] = &cp
	return nil
}

func (r *fakeAssetRepo) Update(_ context.Context, a *entities.Asset) error {
	cp := *a
	r.assets[a.ID] = &cp
	return nil
}

func (r *fakeAssetRepo) SoftDelete(_ context.Context, _, id uint64) error {
	if _, ok := r.assets[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.assets, id)
	return nil
}

type fakeFormRepo struct {
	fields []entities.FormField
}

func (r *fakeFormRepo) FindByEntity(_ context.Context, _ uint64, tag entities.PermissionEntity) ([]entities.FormField, error) {
	out := make([]entities.FormField, 0)
	for _, f := range r.fields {
		if f.Entity == tag {
			out = append(out, f)
		}
	}
	return out, nil
}

// inlineTx runs fn without a database.
type inlineTx struct {
	runs int
}

func (t *inlineTx) RunInTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	t.runs++
	return fn(nil)
}

type recordingBus struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (b *recordingBus) Publish(_ context.Context, e eventbus.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

const testCompanyID = 1

func testRole(code entities.RoleCode, view, viewOther, create, editOther, deleteOther []entities.PermissionEntity) *entities.Role {
	return &entities.Role{
		ID:                     10,
		CompanyID:              testCompanyID,
		Code:                   code,
		ViewPermissions:        view,
		ViewOtherPermissions:   viewOther,
		CreatePermissions:      create,
		EditOtherPermissions:   editOther,
		DeleteOtherPermissions: deleteOther,
	}
}

func tags(t ...entities.PermissionEntity) []entities.PermissionEntity { return t }

func adminSession(userID uint64, features ...entities.PlanFeature) *authz.Session {
	all := entities.AllPermissionEntities
	return authz.NewSession(
		&entities.User{ID: userID, CompanyID: testCompanyID, Enabled: true},
		testRole(entities.RoleAdmin, all, all, all, all, all),
		&entities.Company{ID: testCompanyID, Subscription: entities.Subscription{Plan: entities.SubscriptionPlan{Features: features}}},
	)
}

// limitedSession can see and create work orders and assets but only its own.
func limitedSession(userID uint64, features ...entities.PlanFeature) *authz.Session {
	own := tags(entities.WorkOrders, entities.Assets)
	return authz.NewSession(
		&entities.User{ID: userID, CompanyID: testCompanyID, Enabled: true},
		testRole(entities.RoleLimitedTechnician, own, nil, own, nil, nil),
		&entities.Company{ID: testCompanyID, Subscription: entities.Subscription{Plan: entities.SubscriptionPlan{Features: features}}},
	)
}
