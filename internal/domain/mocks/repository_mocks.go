// Package mocks implementaciones en memoria de los puertos de repositorio para tests.
package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/autogest-api/internal/domain"
	"github.com/jhoicas/autogest-api/internal/domain/entity"
	"github.com/jhoicas/autogest-api/internal/domain/repository"
)

// ── Company ───────────────────────────────────────────────────────────────────

// CompanyRepository mock en memoria de repository.CompanyRepository.
type CompanyRepository struct {
	mu        sync.Mutex
	companies map[string]entity.Company
	Err       error
}

// NewCompanyRepository crea el mock con las empresas indicadas.
func NewCompanyRepository(companies ...*entity.Company) *CompanyRepository {
	r := &CompanyRepository{companies: map[string]entity.Company{}}
	for _, c := range companies {
		r.companies[c.ID] = *c
	}
	return r
}

func (r *CompanyRepository) Create(ctx context.Context, c *entity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, existing := range r.companies {
		if existing.TaxID == c.TaxID {
			return domain.ErrDuplicate
		}
	}
	r.companies[c.ID] = *c
	return nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	c, ok := r.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CompanyRepository) GetByTaxID(ctx context.Context, taxID string) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, c := range r.companies {
		if c.TaxID == taxID {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CompanyRepository) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	all := make([]*entity.Company, 0, len(r.companies))
	for _, c := range r.companies {
		c := c
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, limit, offset), nil
}

func (r *CompanyRepository) UpdateStatus(ctx context.Context, id, status string, expiresAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.companies[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Status = status
	c.ExpiresAt = expiresAt
	r.companies[id] = c
	return nil
}

func (r *CompanyRepository) UpdateCertificate(ctx context.Context, id string, certificate []byte, password string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.companies[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Certificate = append([]byte(nil), certificate...)
	c.CertificatePassword = password
	r.companies[id] = c
	return nil
}

// ── User ──────────────────────────────────────────────────────────────────────

// UserRepository mock en memoria de repository.UserRepository.
type UserRepository struct {
	mu    sync.Mutex
	users map[string]entity.User
	Err   error
}

// NewUserRepository crea el mock con los usuarios indicados.
func NewUserRepository(users ...*entity.User) *UserRepository {
	r := &UserRepository{users: map[string]entity.User{}}
	for _, u := range users {
		r.users[u.ID] = *u
	}
	return r
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var list []*entity.User
	for _, u := range r.users {
		if u.CompanyID == companyID {
			u := u
			list = append(list, &u)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Email < list[j].Email })
	return page(list, limit, offset), nil
}

// ── Vehicle ───────────────────────────────────────────────────────────────────

// VehicleRepository mock en memoria de repository.VehicleRepository.
// Guarda copias: mutar una entidad devuelta no altera el almacén.
type VehicleRepository struct {
	mu         sync.Mutex
	vehicles   map[string]entity.Vehicle
	Err        error
	PlateLocks int
}

// NewVehicleRepository crea el mock con los vehículos indicados.
func NewVehicleRepository(vehicles ...*entity.Vehicle) *VehicleRepository {
	r := &VehicleRepository{vehicles: map[string]entity.Vehicle{}}
	for _, v := range vehicles {
		r.vehicles[v.ID] = cloneVehicle(v)
	}
	return r
}

func (r *VehicleRepository) Create(ctx context.Context, v *entity.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, existing := range r.vehicles {
		if existing.CompanyID == v.CompanyID && existing.Plate == v.Plate {
			return domain.ErrDuplicatePlate
		}
	}
	r.vehicles[v.ID] = cloneVehicle(v)
	return nil
}

func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*entity.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	v, ok := r.vehicles[id]
	if !ok {
		return nil, nil
	}
	out := cloneVehicle(&v)
	return &out, nil
}

// GetByIDForUpdate igual que GetByID; el bloqueo lo emula TxRunner.
func (r *VehicleRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Vehicle, error) {
	return r.GetByID(ctx, id)
}

// LockPlate no hace nada: TxRunner ya serializa los callbacks. Cuenta las llamadas.
func (r *VehicleRepository) LockPlate(ctx context.Context, plate string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.PlateLocks++
	return r.Err
}

func (r *VehicleRepository) FindByPlate(ctx context.Context, companyID, plate string) (*entity.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, v := range r.vehicles {
		if v.Plate == plate && (companyID == "" || v.CompanyID == companyID) {
			out := cloneVehicle(&v)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *VehicleRepository) List(ctx context.Context, filter repository.VehicleFilter) ([]*entity.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	list := make([]*entity.Vehicle, 0)
	for _, v := range r.vehicles {
		if filter.CompanyID != "" && v.CompanyID != filter.CompanyID {
			continue
		}
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		out := cloneVehicle(&v)
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *VehicleRepository) ExistsRegistrationNumber(ctx context.Context, number string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	for _, v := range r.vehicles {
		if v.RegistrationNumber != nil && *v.RegistrationNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *VehicleRepository) SetRegistrationNumber(ctx context.Context, id, number string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, v := range r.vehicles {
		if v.RegistrationNumber != nil && *v.RegistrationNumber == number {
			return domain.ErrDuplicate
		}
	}
	v, ok := r.vehicles[id]
	if !ok {
		return domain.ErrNotFound
	}
	if v.RegistrationNumber != nil {
		return domain.ErrAlreadyRegistered
	}
	v.RegistrationNumber = &number
	r.vehicles[id] = v
	return nil
}

func (r *VehicleRepository) MarkSold(ctx context.Context, sold *entity.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	v, ok := r.vehicles[sold.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if v.IsSold() {
		return domain.ErrAlreadySold
	}
	r.vehicles[sold.ID] = cloneVehicle(sold)
	return nil
}

func (r *VehicleRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	if _, ok := r.vehicles[id]; !ok {
		return false, nil
	}
	delete(r.vehicles, id)
	return true, nil
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// TxRunner serializa los callbacks como lo haría un bloqueo de fila. No emula rollback.
type TxRunner struct {
	mu   sync.Mutex
	Repo repository.VehicleRepository
}

// NewTxRunner crea el runner sobre el repo indicado.
func NewTxRunner(repo repository.VehicleRepository) *TxRunner {
	return &TxRunner{Repo: repo}
}

func (t *TxRunner) Run(ctx context.Context, fn func(repo repository.VehicleRepository) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.Repo)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func cloneVehicle(v *entity.Vehicle) entity.Vehicle {
	out := *v
	if v.RegistrationNumber != nil {
		n := *v.RegistrationNumber
		out.RegistrationNumber = &n
	}
	if v.SoldAt != nil {
		t := *v.SoldAt
		out.SoldAt = &t
	}
	if v.Buyer != nil {
		b := *v.Buyer
		out.Buyer = &b
	}
	if v.SaleValue != nil {
		s := *v.SaleValue
		out.SaleValue = &s
	}
	return out
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
