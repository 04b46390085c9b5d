package domain

// TaxDocument is a computed, provider-attributed result of one calculation.
// Treat it as immutable once returned; use Clone to derive a copy.
type TaxDocument struct {
	DocumentID  string             `json:"document_id"`
	JournalType JournalType        `json:"journal_type"`
	Provider    string             `json:"provider"`
	Container   TaxedItemContainer `json:"container"`
}

func (d *TaxDocument) Clone() *TaxDocument {
	if d == nil {
		return nil
	}
	out := *d
	if d.Container.Items != nil {
		out.Container.Items = make([]TaxedItem, len(d.Container.Items))
		for i, item := range d.Container.Items {
			out.Container.Items[i] = item.clone()
		}
	}
	return &out
}
