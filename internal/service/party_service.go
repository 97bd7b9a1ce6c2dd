package service

import (
	"context"

	"github.com/Akilucky-rogue/biz-boundless/internal/dto"
	"github.com/Akilucky-rogue/biz-boundless/internal/model"
	"github.com/Akilucky-rogue/biz-boundless/internal/repository"

	"github.com/google/uuid"
)

// ── Vendors ───────────────────────────────────────────────────────────────────

type VendorService interface {
	Create(ctx context.Context, req dto.CreateVendorRequest) (*dto.VendorResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.VendorResponse, error)
	List(ctx context.Context, includeInactive bool) ([]dto.VendorResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateVendorRequest) (*dto.VendorResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type vendorService struct {
	repo repository.VendorRepository
}

func NewVendorService(repo repository.VendorRepository) VendorService {
	return &vendorService{repo: repo}
}

func (s *vendorService) Create(ctx context.Context, req dto.CreateVendorRequest) (*dto.VendorResponse, error) {
	v := &model.Vendor{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		GSTIN:         blankToNil(req.GSTIN),
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, fromRepo(err, "vendor")
	}
	resp := vendorResponse(v)
	return &resp, nil
}

func (s *vendorService) GetByID(ctx context.Context, id uuid.UUID) (*dto.VendorResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "vendor")
	}
	resp := vendorResponse(v)
	return &resp, nil
}

func (s *vendorService) List(ctx context.Context, includeInactive bool) ([]dto.VendorResponse, error) {
	vendors, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VendorResponse, 0, len(vendors))
	for i := range vendors {
		out = append(out, vendorResponse(&vendors[i]))
	}
	return out, nil
}

func (s *vendorService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateVendorRequest) (*dto.VendorResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "vendor")
	}
	if req.Name != nil {
		v.Name = *req.Name
	}
	if req.ContactPerson != nil {
		v.ContactPerson = req.ContactPerson
	}
	if req.Email != nil {
		v.Email = req.Email
	}
	if req.Phone != nil {
		v.Phone = req.Phone
	}
	if req.Address != nil {
		v.Address = req.Address
	}
	if req.GSTIN != nil {
		v.GSTIN = blankToNil(req.GSTIN)
	}
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, fromRepo(err, "vendor")
	}
	resp := vendorResponse(v)
	return &resp, nil
}

func (s *vendorService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return fromRepo(s.repo.SetActive(ctx, id, false), "vendor")
}

// ── Customers ─────────────────────────────────────────────────────────────────

type CustomerService interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	List(ctx context.Context, filter dto.CustomerFilter) ([]dto.CustomerResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	c := &model.Customer{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		GSTIN:       blankToNil(req.GSTIN),
		CreditLimit: req.CreditLimit,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fromRepo(err, "customer")
	}
	resp := customerResponse(c)
	return &resp, nil
}

func (s *customerService) GetByID(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "customer")
	}
	resp := customerResponse(c)
	return &resp, nil
}

func (s *customerService) List(ctx context.Context, filter dto.CustomerFilter) ([]dto.CustomerResponse, error) {
	customers, err := s.repo.Search(ctx, filter.Search, filter.All)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, customerResponse(&customers[i]))
	}
	return out, nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "customer")
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.Phone != nil {
		c.Phone = req.Phone
	}
	if req.Address != nil {
		c.Address = req.Address
	}
	if req.GSTIN != nil {
		c.GSTIN = blankToNil(req.GSTIN)
	}
	if req.CreditLimit != nil {
		c.CreditLimit = req.CreditLimit
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fromRepo(err, "customer")
	}
	resp := customerResponse(c)
	return &resp, nil
}

func (s *customerService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return fromRepo(s.repo.SetActive(ctx, id, false), "customer")
}
