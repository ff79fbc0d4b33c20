package entities

import (
	"strings"
	"time"
)

// CatalogKind describes a plain CRUD collection.
type CatalogKind struct {
	// Name is the singular, human readable entity name ("customer").
	Name string
	// Collection is the plural resource name used for routes and tables.
	Collection string
	// KeyLabel names the natural unique key in error messages ("phone").
	KeyLabel string
}

// Record is implemented by every catalog entity. WithIdentity returns a copy
// carrying the given id and timestamps.
type Record[T any] interface {
	Kind() CatalogKind
	RecordID() string
	Created() time.Time
	UniqueKey() string
	Validate() error
	WithIdentity(id string, createdAt, updatedAt time.Time) T
}

var (
	CustomerKind  = CatalogKind{Name: "customer", Collection: "customers", KeyLabel: "phone"}
	AgentKind     = CatalogKind{Name: "agent", Collection: "agents", KeyLabel: "phone"}
	EmployeeKind  = CatalogKind{Name: "employee", Collection: "employees", KeyLabel: "email"}
	ProductKind   = CatalogKind{Name: "product", Collection: "products", KeyLabel: "code"}
	SupplierKind  = CatalogKind{Name: "supplier", Collection: "suppliers", KeyLabel: "name"}
	VendorKind    = CatalogKind{Name: "vendor", Collection: "vendors", KeyLabel: "name"}
	InventoryKind = CatalogKind{Name: "inventory item", Collection: "inventory", KeyLabel: "product code"}
)

// CatalogKinds lists every catalog collection.
var CatalogKinds = []CatalogKind{CustomerKind, AgentKind, EmployeeKind, ProductKind, SupplierKind, VendorKind, InventoryKind}

type Customer struct {
	ID        string    `json:"id" dynamodbav:"id"`
	Name      string    `json:"name" dynamodbav:"name"`
	Phone     string    `json:"phone" dynamodbav:"phone"`
	Email     string    `json:"email" dynamodbav:"email"`
	Address   string    `json:"address" dynamodbav:"address"`
	City      string    `json:"city" dynamodbav:"city"`
	GSTIN     string    `json:"gstin" dynamodbav:"gstin"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

func (Customer) Kind() CatalogKind    { return CustomerKind }
func (c Customer) RecordID() string   { return c.ID }
func (c Customer) Created() time.Time { return c.CreatedAt }
func (c Customer) UniqueKey() string  { return strings.TrimSpace(c.Phone) }
func (c Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return requiredField("name")
	}
	if c.UniqueKey() == "" {
		return requiredField("phone")
	}
	return nil
}
func (c Customer) WithIdentity(id string, createdAt, updatedAt time.Time) Customer {
	c.ID, c.CreatedAt, c.UpdatedAt = id, createdAt, updatedAt
	return c
}

type Agent struct {
	ID             string    `json:"id" dynamodbav:"id"`
	Name           string    `json:"name" dynamodbav:"name"`
	Phone          string    `json:"phone" dynamodbav:"phone"`
	Email          string    `json:"email" dynamodbav:"email"`
	Area           string    `json:"area" dynamodbav:"area"`
	CommissionRate float64   `json:"commission_rate" dynamodbav:"commission_rate"`
	CreatedAt      time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

func (Agent) Kind() CatalogKind    { return AgentKind }
func (a Agent) RecordID() string   { return a.ID }
func (a Agent) Created() time.Time { return a.CreatedAt }
func (a Agent) UniqueKey() string  { return strings.TrimSpace(a.Phone) }
func (a Agent) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return requiredField("name")
	}
	if a.UniqueKey() == "" {
		return requiredField("phone")
	}
	if a.CommissionRate < 0 || a.CommissionRate > 100 {
		return &ValidationError{Field: "commission_rate", Reason: "must be between 0 and 100"}
	}
	return nil
}
func (a Agent) WithIdentity(id string, createdAt, updatedAt time.Time) Agent {
	a.ID, a.CreatedAt, a.UpdatedAt = id, createdAt, updatedAt
	return a
}

type Employee struct {
	ID        string    `json:"id" dynamodbav:"id"`
	Name      string    `json:"name" dynamodbav:"name"`
	Email     string    `json:"email" dynamodbav:"email"`
	Phone     string    `json:"phone" dynamodbav:"phone"`
	Role      string    `json:"role" dynamodbav:"role"`
	Salary    float64   `json:"salary" dynamodbav:"salary"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

func (Employee) Kind() CatalogKind    { return EmployeeKind }
func (e Employee) RecordID() string   { return e.ID }
func (e Employee) Created() time.Time { return e.CreatedAt }
func (e Employee) UniqueKey() string  { return strings.ToLower(strings.TrimSpace(e.Email)) }
func (e Employee) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return requiredField("name")
	}
	if e.UniqueKey() == "" {
		return requiredField("email")
	}
	if e.Salary < 0 {
		return &ValidationError{Field: "salary", Reason: "must not be negative"}
	}
	return nil
}
func (e Employee) WithIdentity(id string, createdAt, updatedAt time.Time) Employee {
	e.ID, e.CreatedAt, e.UpdatedAt = id, createdAt, updatedAt
	return e
}

type Product struct {
	ID        string    `json:"id" dynamodbav:"id"`
	Code      string    `json:"code" dynamodbav:"code"`
	Name      string    `json:"name" dynamodbav:"name"`
	Category  string    `json:"category" dynamodbav:"category"`
	Size      string    `json:"size" dynamodbav:"size"`
	Unit      string    `json:"unit" dynamodbav:"unit"`
	Rate      float64   `json:"rate" dynamodbav:"rate"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

func (Product) Kind() CatalogKind    { return ProductKind }
func (p Product) RecordID() string   { return p.ID }
func (p Product) Created() time.Time { return p.CreatedAt }
func (p Product) UniqueKey() string  { return strings.ToUpper(strings.TrimSpace(p.Code)) }
func (p Product) Validate() error {
	if p.UniqueKey() == "" {
		return requiredField("code")
	}
	if strings.TrimSpace(p.Name) == "" {
		return requiredField("name")
	}
	if p.Rate < 0 {
		return &ValidationError{Field: "rate", Reason: "must not be negative"}
	}
	return nil
}
func (p Product) WithIdentity(id string, createdAt, updatedAt time.Time) Product {
	p.ID, p.CreatedAt, p.UpdatedAt = id, createdAt, updatedAt
	return p
}

type Supplier struct {
	ID            string    `json:"id" dynamodbav:"id"`
	Name          string    `json:"name" dynamodbav:"name"`
	ContactPerson string    `json:"contact_person" dynamodbav:"contact_person"`
	Phone         string    `json:"phone" dynamodbav:"phone"`
	Email         string    `json:"email" dynamodbav:"email"`
	Address       string    `json:"address" dynamodbav:"address"`
	CreatedAt     time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

func (Supplier) Kind() CatalogKind    { return SupplierKind }
func (s Supplier) RecordID() string   { return s.ID }
func (s Supplier) Created() time.Time { return s.CreatedAt }
func (s Supplier) UniqueKey() string  { return strings.TrimSpace(s.Name) }
func (s Supplier) Validate() error {
	if s.UniqueKey() == "" {
		return requiredField("name")
	}
	return nil
}
func (s Supplier) WithIdentity(id string, createdAt, updatedAt time.Time) Supplier {
	s.ID, s.CreatedAt, s.UpdatedAt = id, createdAt, updatedAt
	return s
}

type Vendor struct {
	ID            string    `json:"id" dynamodbav:"id"`
	Name          string    `json:"name" dynamodbav:"name"`
	ContactPerson string    `json:"contact_person" dynamodbav:"contact_person"`
	Phone         string    `json:"phone" dynamodbav:"phone"`
	Email         string    `json:"email" dynamodbav:"email"`
	Address       string    `json:"address" dynamodbav:"address"`
	Services      string    `json:"services" dynamodbav:"services"`
	CreatedAt     time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

func (Vendor) Kind() CatalogKind    { return VendorKind }
func (v Vendor) RecordID() string   { return v.ID }
func (v Vendor) Created() time.Time { return v.CreatedAt }
func (v Vendor) UniqueKey() string  { return strings.TrimSpace(v.Name) }
func (v Vendor) Validate() error {
	if v.UniqueKey() == "" {
		return requiredField("name")
	}
	return nil
}
func (v Vendor) WithIdentity(id string, createdAt, updatedAt time.Time) Vendor {
	v.ID, v.CreatedAt, v.UpdatedAt = id, createdAt, updatedAt
	return v
}

// InventoryItem tracks stock on hand for a product code. Quantity changes go
// through an atomic increment rather than a full update.
type InventoryItem struct {
	ID           string    `json:"id" dynamodbav:"id"`
	ProductCode  string    `json:"product_code" dynamodbav:"product_code"`
	ProductName  string    `json:"product_name" dynamodbav:"product_name"`
	Category     string    `json:"category" dynamodbav:"category"`
	Unit         string    `json:"unit" dynamodbav:"unit"`
	SupplierName string    `json:"supplier_name" dynamodbav:"supplier_name"`
	Quantity     int       `json:"quantity" dynamodbav:"quantity"`
	ReorderLevel int       `json:"reorder_level" dynamodbav:"reorder_level"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

func (InventoryItem) Kind() CatalogKind    { return InventoryKind }
func (i InventoryItem) RecordID() string   { return i.ID }
func (i InventoryItem) Created() time.Time { return i.CreatedAt }
func (i InventoryItem) UniqueKey() string  { return strings.ToUpper(strings.TrimSpace(i.ProductCode)) }
func (i InventoryItem) Validate() error {
	if i.UniqueKey() == "" {
		return requiredField("product_code")
	}
	if strings.TrimSpace(i.ProductName) == "" {
		return requiredField("product_name")
	}
	if i.Quantity < 0 {
		return &ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	if i.ReorderLevel < 0 {
		return &ValidationError{Field: "reorder_level", Reason: "must not be negative"}
	}
	return nil
}
func (i InventoryItem) WithIdentity(id string, createdAt, updatedAt time.Time) InventoryItem {
	i.ID, i.CreatedAt, i.UpdatedAt = id, createdAt, updatedAt
	return i
}

// NeedsReorder reports whether stock fell to or below the reorder level.
func (i InventoryItem) NeedsReorder() bool {
	return i.ReorderLevel > 0 && i.Quantity <= i.ReorderLevel
}
