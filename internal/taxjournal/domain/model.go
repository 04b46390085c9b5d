package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
)

// TaxJournalRecord is one signed audit row per item and applied tax record.
// Amounts are multiplied by the journal type sign, so summing a document's
// rows across purchase and reversal entries nets to the outstanding tax.
type TaxJournalRecord struct {
	ID              snowflake.ID              `gorm:"primaryKey"`
	JournalEntryID  snowflake.ID              `gorm:"not null;index"`
	DocumentID      string                    `gorm:"type:text;not null;index"`
	JournalType     taxdomain.JournalType     `gorm:"type:text;not null"`
	TransactionType taxdomain.TransactionType `gorm:"type:text;not null"`
	TransactionDate time.Time                 `gorm:"not null"`
	OrderNumber     string                    `gorm:"type:text;index"`
	StoreCode       string                    `gorm:"type:text;not null"`
	Currency        string                    `gorm:"type:text;not null"`
	Provider        string                    `gorm:"type:text;not null"`
	TaxInclusive    bool                      `gorm:"not null;default:false"`

	LineNumber      int             `gorm:"not null"`
	ItemGUID        string          `gorm:"column:item_guid;type:text;not null"`
	ItemCode        string          `gorm:"type:text;not null"`
	ItemDescription string          `gorm:"type:text"`
	ItemTaxCode     string          `gorm:"type:text"`
	TaxCodeActive   bool            `gorm:"not null;default:false"`
	Quantity        int             `gorm:"not null;default:0"`
	Price           decimal.Decimal `gorm:"type:numeric(19,4);not null"`
	Discount        decimal.Decimal `gorm:"type:numeric(19,4);not null"`
	PriceBeforeTax  decimal.Decimal `gorm:"type:numeric(19,4);not null"`
	TaxInPrice      bool            `gorm:"not null;default:false"`
	TotalTax        decimal.Decimal `gorm:"type:numeric(19,4);not null"`

	TaxName      string          `gorm:"type:text"`
	TaxCode      string          `gorm:"type:text"`
	Jurisdiction string          `gorm:"type:text"`
	Region       string          `gorm:"type:text"`
	TaxRate      decimal.Decimal `gorm:"type:numeric(9,6);not null"`
	TaxProvider  string          `gorm:"type:text"`
	TaxValue     decimal.Decimal `gorm:"type:numeric(19,4);not null"`

	CustomerCode           string `gorm:"type:text"`
	CustomerBusinessNumber string `gorm:"type:text"`
	ExemptionCode          string `gorm:"type:text"`

	DestinationStreet1    string `gorm:"column:destination_street1;type:text"`
	DestinationStreet2    string `gorm:"column:destination_street2;type:text"`
	DestinationCity       string `gorm:"type:text"`
	DestinationSubCountry string `gorm:"type:text"`
	DestinationPostalCode string `gorm:"type:text"`
	DestinationCountry    string `gorm:"type:text"`
	OriginStreet1         string `gorm:"column:origin_street1;type:text"`
	OriginStreet2         string `gorm:"column:origin_street2;type:text"`
	OriginCity            string `gorm:"type:text"`
	OriginSubCountry      string `gorm:"type:text"`
	OriginPostalCode      string `gorm:"type:text"`
	OriginCountry         string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (TaxJournalRecord) TableName() string { return "tax_journal_records" }

// HasTaxRecord is false for the placeholder row written for an item without records.
func (r TaxJournalRecord) HasTaxRecord() bool {
	return r.TaxName != ""
}

func (r TaxJournalRecord) Destination() taxdomain.Address {
	return taxdomain.Address{
		Street1:         r.DestinationStreet1,
		Street2:         r.DestinationStreet2,
		City:            r.DestinationCity,
		SubCountry:      r.DestinationSubCountry,
		ZipOrPostalCode: r.DestinationPostalCode,
		Country:         r.DestinationCountry,
	}
}

func (r TaxJournalRecord) Origin() taxdomain.Address {
	return taxdomain.Address{
		Street1:         r.OriginStreet1,
		Street2:         r.OriginStreet2,
		City:            r.OriginCity,
		SubCountry:      r.OriginSubCountry,
		ZipOrPostalCode: r.OriginPostalCode,
		Country:         r.OriginCountry,
	}
}

// JournalEntry groups the rows written by one commit.
type JournalEntry struct {
	ID              snowflake.ID
	DocumentID      string
	JournalType     taxdomain.JournalType
	TransactionType taxdomain.TransactionType
	TransactionDate time.Time
	OrderNumber     string
	Records         []TaxJournalRecord
}

// NetTax sums the signed tax values of the entry.
func (e *JournalEntry) NetTax() decimal.Decimal {
	total := decimal.Zero
	if e == nil {
		return total
	}
	for _, r := range e.Records {
		total = total.Add(r.TaxValue)
	}
	return total
}
