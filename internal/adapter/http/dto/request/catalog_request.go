package request

import "bizdesk/internal/domain/entities"

// CatalogRequest is the body of a catalog create or update. Every field is
// optional on update; Apply overlays only the fields that were sent.
type CatalogRequest[T entities.Record[T]] interface {
	ToRecord() T
	Apply(current T) T
}

func set[V any](dst *V, src *V) {
	if src != nil {
		*dst = *src
	}
}

func val[V any](p *V) V {
	var zero V
	if p == nil {
		return zero
	}
	return *p
}

type CustomerRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	GSTIN   *string `json:"gstin"`
}

func (r CustomerRequest) ToRecord() entities.Customer { return r.Apply(entities.Customer{}) }

func (r CustomerRequest) Apply(c entities.Customer) entities.Customer {
	set(&c.Name, trimmed(r.Name))
	set(&c.Phone, trimmed(r.Phone))
	set(&c.Email, trimmed(r.Email))
	set(&c.Address, r.Address)
	set(&c.City, trimmed(r.City))
	set(&c.GSTIN, trimmed(r.GSTIN))
	return c
}

type AgentRequest struct {
	Name           *string  `json:"name"`
	Phone          *string  `json:"phone"`
	Email          *string  `json:"email" binding:"omitempty,email"`
	Area           *string  `json:"area"`
	CommissionRate *float64 `json:"commission_rate"`
}

func (r AgentRequest) ToRecord() entities.Agent { return r.Apply(entities.Agent{}) }

func (r AgentRequest) Apply(a entities.Agent) entities.Agent {
	set(&a.Name, trimmed(r.Name))
	set(&a.Phone, trimmed(r.Phone))
	set(&a.Email, trimmed(r.Email))
	set(&a.Area, trimmed(r.Area))
	set(&a.CommissionRate, r.CommissionRate)
	return a
}

type EmployeeRequest struct {
	Name   *string  `json:"name"`
	Email  *string  `json:"email" binding:"omitempty,email"`
	Phone  *string  `json:"phone"`
	Role   *string  `json:"role"`
	Salary *float64 `json:"salary"`
}

func (r EmployeeRequest) ToRecord() entities.Employee { return r.Apply(entities.Employee{}) }

func (r EmployeeRequest) Apply(e entities.Employee) entities.Employee {
	set(&e.Name, trimmed(r.Name))
	set(&e.Email, trimmed(r.Email))
	set(&e.Phone, trimmed(r.Phone))
	set(&e.Role, trimmed(r.Role))
	set(&e.Salary, r.Salary)
	return e
}

type ProductRequest struct {
	Code     *string  `json:"code"`
	Name     *string  `json:"name"`
	Category *string  `json:"category"`
	Size     *string  `json:"size"`
	Unit     *string  `json:"unit"`
	Rate     *float64 `json:"rate"`
}

func (r ProductRequest) ToRecord() entities.Product { return r.Apply(entities.Product{}) }

func (r ProductRequest) Apply(p entities.Product) entities.Product {
	set(&p.Code, trimmed(r.Code))
	set(&p.Name, trimmed(r.Name))
	set(&p.Category, trimmed(r.Category))
	set(&p.Size, trimmed(r.Size))
	set(&p.Unit, trimmed(r.Unit))
	set(&p.Rate, r.Rate)
	return p
}

type SupplierRequest struct {
	Name          *string `json:"name"`
	ContactPerson *string `json:"contact_person"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Address       *string `json:"address"`
}

func (r SupplierRequest) ToRecord() entities.Supplier { return r.Apply(entities.Supplier{}) }

func (r SupplierRequest) Apply(s entities.Supplier) entities.Supplier {
	set(&s.Name, trimmed(r.Name))
	set(&s.ContactPerson, trimmed(r.ContactPerson))
	set(&s.Phone, trimmed(r.Phone))
	set(&s.Email, trimmed(r.Email))
	set(&s.Address, r.Address)
	return s
}

type VendorRequest struct {
	SupplierRequest
	Services *string `json:"services"`
}

func (r VendorRequest) ToRecord() entities.Vendor { return r.Apply(entities.Vendor{}) }

func (r VendorRequest) Apply(v entities.Vendor) entities.Vendor {
	s := r.SupplierRequest.Apply(entities.Supplier{
		Name:          v.Name,
		ContactPerson: v.ContactPerson,
		Phone:         v.Phone,
		Email:         v.Email,
		Address:       v.Address,
	})
	v.Name, v.ContactPerson, v.Phone, v.Email, v.Address = s.Name, s.ContactPerson, s.Phone, s.Email, s.Address
	set(&v.Services, r.Services)
	return v
}

type InventoryItemRequest struct {
	ProductCode  *string `json:"product_code"`
	ProductName  *string `json:"product_name"`
	Category     *string `json:"category"`
	Unit         *string `json:"unit"`
	SupplierName *string `json:"supplier_name"`
	Quantity     *int    `json:"quantity"`
	ReorderLevel *int    `json:"reorder_level"`
}

func (r InventoryItemRequest) ToRecord() entities.InventoryItem {
	return r.Apply(entities.InventoryItem{})
}

func (r InventoryItemRequest) Apply(i entities.InventoryItem) entities.InventoryItem {
	set(&i.ProductCode, trimmed(r.ProductCode))
	set(&i.ProductName, trimmed(r.ProductName))
	set(&i.Category, trimmed(r.Category))
	set(&i.Unit, trimmed(r.Unit))
	set(&i.SupplierName, trimmed(r.SupplierName))
	set(&i.Quantity, r.Quantity)
	set(&i.ReorderLevel, r.ReorderLevel)
	return i
}

// InventoryIncrementRequest adjusts stock by delta; negative values take stock out.
type InventoryIncrementRequest struct {
	Delta *int `json:"delta" binding:"required"`
}

func (r InventoryIncrementRequest) Value() int { return val(r.Delta) }
