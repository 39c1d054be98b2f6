package main

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names used by the document store.
const (
	collProperties   = "properties"
	collCompanies    = "companies"
	collAccounts     = "accounts"
	collTransactions = "transactions"
	collOwnerships   = "company_ownership"
	collEntries      = "entries"
)

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
)

// InterestType distinguishes cost-bearing from revenue-only ownership.
type InterestType string

const (
	InterestTypeWorking InterestType = "working"
	InterestTypeRoyalty InterestType = "royalty"
)

// EntryType is the reporting period an entry covers.
type EntryType string

const (
	EntryTypeMonthly   EntryType = "monthly"
	EntryTypeQuarterly EntryType = "quarterly"
	EntryTypeAnnual    EntryType = "annual"
	EntryTypeCustom    EntryType = "custom"
)

// EntryStatus is the review state of an entry.
type EntryStatus string

const (
	EntryStatusDraft     EntryStatus = "draft"
	EntryStatusSubmitted EntryStatus = "submitted"
	EntryStatusApproved  EntryStatus = "approved"
	EntryStatusRejected  EntryStatus = "rejected"
)

// Address is the structured location of a property.
type Address struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	ZipCode string `bson:"zip_code" json:"zip_code"`
}

// ContactInfo holds optional company contact details.
type ContactInfo struct {
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
}

// Property represents a tract of land referenced by ownership and
// transaction records.
type Property struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Address     Address            `bson:"address" json:"address"`
	Description *string            `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// Company represents an operator, payor or payee company.
type Company struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description *string            `bson:"description,omitempty" json:"description,omitempty"`
	ContactInfo *ContactInfo       `bson:"contact_info,omitempty" json:"contact_info,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// Account represents a bank account tracked for accounting purposes.
type Account struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	AccountType   string             `bson:"account_type" json:"account_type"`
	AccountNumber string             `bson:"account_number" json:"account_number"`
	Status        AccountStatus      `bson:"status" json:"status"`
	Balance       float64            `bson:"balance" json:"balance"`
	BankName      *string            `bson:"bank_name,omitempty" json:"bank_name,omitempty"`
	Description   *string            `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

// Transaction represents an amount paid by one company for a property.
type Transaction struct {
	ID                      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PropertyID              primitive.ObjectID `bson:"property_id" json:"property_id"`
	CompanyID               primitive.ObjectID `bson:"company_id" json:"company_id"`
	TransactionDate         time.Time          `bson:"transaction_date" json:"transaction_date"`
	Amount                  float64            `bson:"amount" json:"amount"`
	MerchandiseTransacted   *string            `bson:"merchandise_transacted,omitempty" json:"merchandise_transacted,omitempty"`
	AmountOfMerchTransacted *float64           `bson:"amount_of_merch_transacted,omitempty" json:"amount_of_merch_transacted,omitempty"`
	MerchandiseType         *string            `bson:"merchandise_type,omitempty" json:"merchandise_type,omitempty"`
	BarrelsOfOil            *float64           `bson:"barrels_of_oil,omitempty" json:"barrels_of_oil,omitempty"`
	Service                 *string            `bson:"service,omitempty" json:"service,omitempty"`
	CreatedAt               time.Time          `bson:"created_at" json:"created_at"`
}

// CompanyOwnership links a company to a property with a percentage interest
// over a time window. Current ownerships are open-ended (no date_to);
// historical ones carry a closed [date_from, date_to] interval.
type CompanyOwnership struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PropertyID     primitive.ObjectID `bson:"property_id" json:"property_id"`
	CompanyID      primitive.ObjectID `bson:"company_id" json:"company_id"`
	Percentage     float64            `bson:"percentage" json:"percentage"`
	InterestType   InterestType       `bson:"interest_type" json:"interest_type"`
	WellType       *string            `bson:"well_type,omitempty" json:"well_type,omitempty"`
	Notes          *string            `bson:"notes,omitempty" json:"notes,omitempty"`
	IsCurrentOwner bool               `bson:"is_current_owner" json:"is_current_owner"`
	DateFrom       time.Time          `bson:"date_from" json:"date_from"`
	DateTo         *time.Time         `bson:"date_to,omitempty" json:"date_to,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

// Entry groups transactions for a reporting period. Its transaction_ids
// behave as a set: duplicate adds are no-ops and removals are idempotent.
type Entry struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title          string               `bson:"title" json:"title"`
	Description    *string              `bson:"description,omitempty" json:"description,omitempty"`
	TransactionIDs []primitive.ObjectID `bson:"transaction_ids" json:"transaction_ids"`
	EntryDate      time.Time            `bson:"entry_date" json:"entry_date"`
	EntryType      EntryType            `bson:"entry_type" json:"entry_type"`
	Status         EntryStatus          `bson:"status" json:"status"`
	Posted         *bool                `bson:"posted,omitempty" json:"posted,omitempty"`
	CreatedAt      time.Time            `bson:"created_at" json:"created_at"`
}

// EntryWithTransactions is an entry expanded with its transaction documents.
type EntryWithTransactions struct {
	Entry
	Transactions []Transaction `json:"transactions"`
}
