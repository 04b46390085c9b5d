package domain

import "strings"

// Address is the tax-relevant part of a postal address.
type Address struct {
	Street1         string `json:"street_1,omitempty"`
	Street2         string `json:"street_2,omitempty"`
	City            string `json:"city,omitempty"`
	SubCountry      string `json:"sub_country,omitempty"`
	ZipOrPostalCode string `json:"zip_or_postal_code,omitempty"`
	Country         string `json:"country,omitempty"`
}

// Normalized trims every field and upper-cases country and sub-country codes.
func (a Address) Normalized() Address {
	return Address{
		Street1:         strings.TrimSpace(a.Street1),
		Street2:         strings.TrimSpace(a.Street2),
		City:            strings.TrimSpace(a.City),
		SubCountry:      strings.ToUpper(strings.TrimSpace(a.SubCountry)),
		ZipOrPostalCode: strings.TrimSpace(a.ZipOrPostalCode),
		Country:         strings.ToUpper(strings.TrimSpace(a.Country)),
	}
}

func (a Address) IsZero() bool {
	return a == Address{}
}
