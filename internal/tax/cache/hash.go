package cache

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
)

// Fields are written length-prefixed so adjacent values cannot run into each other.
type encoder struct {
	d *xxhash.Digest
}

func newEncoder() *encoder {
	return &encoder{d: xxhash.New()}
}

func (e *encoder) str(v string) {
	_, _ = e.d.WriteString(strconv.Itoa(len(v)))
	_, _ = e.d.WriteString(":")
	_, _ = e.d.WriteString(v)
}

func (e *encoder) dec(v decimal.Decimal) {
	// String drops trailing zeros, so 10 and 10.00 encode the same.
	e.str(v.String())
}

func (e *encoder) boolean(v bool) {
	if v {
		e.str("1")
		return
	}
	e.str("0")
}

func (e *encoder) address(a taxdomain.Address) {
	a = a.Normalized()
	e.str(a.Street1)
	e.str(a.Street2)
	e.str(a.City)
	e.str(a.SubCountry)
	e.str(a.ZipOrPostalCode)
	e.str(a.Country)
}

// item encodes everything that affects tax except the GUID.
func (e *encoder) item(item taxdomain.TaxableItem) {
	e.str(item.ItemCode)
	e.str(item.ItemDescription)
	e.str(item.TaxCode)
	e.boolean(item.TaxCodeActive)
	e.str(strconv.Itoa(item.Quantity))
	e.dec(item.Price)
	e.dec(item.Discount)
	e.str(item.Currency)
}

func (e *encoder) operation(op taxdomain.TaxOperationContext) {
	e.str(string(op.JournalType))
	e.str(string(op.TransactionType))
	e.str(op.CustomerCode)
	e.str(op.CustomerBusinessNumber)
	if op.TaxExemption != nil {
		e.str(op.TaxExemption.Code)
	} else {
		e.str("")
	}
}

func (e *encoder) sum() uint64 {
	return e.d.Sum64()
}

// ContainerKey is the structural cache key of a container. Item GUIDs, the
// document id and the shipping reference are excluded so identical carts share an entry.
func ContainerKey(c *taxdomain.TaxableItemContainer) string {
	e := newEncoder()
	e.str(c.StoreCode)
	e.str(c.Currency)
	e.address(c.Destination)
	e.address(c.Origin)
	e.operation(c.Operation)
	e.str(strconv.Itoa(len(c.Items)))
	for _, item := range c.Items {
		e.item(item)
	}
	return strconv.FormatUint(e.sum(), 16)
}

// ItemHashes returns one hash per item, in container order.
func ItemHashes(items []taxdomain.TaxableItem) []uint64 {
	out := make([]uint64, len(items))
	for i, item := range items {
		e := newEncoder()
		e.item(item)
		out[i] = e.sum()
	}
	return out
}
