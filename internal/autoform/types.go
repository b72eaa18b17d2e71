// Package autoform implements the core of the Autoform corporate-body lookup:
// query parsing, credential resolution, URL sanitization, and the upstream
// registry client.
package autoform

// CorporateBody is a single registry entry. Every field is optional because
// upstream responses vary in completeness; a nil pointer means the registry
// did not report the field, which is distinct from an empty string.
type CorporateBody struct {
	// CIN is the company identification number (IČO).
	CIN *string `json:"cin,omitempty"`

	// TIN is the tax identification number (DIČ).
	TIN *string `json:"tin,omitempty"`

	// VATIN is the VAT identification number (IČ DPH).
	VATIN *string `json:"vatin,omitempty"`

	// Name is the registered name of the corporate body.
	Name *string `json:"name,omitempty"`

	// FormattedAddress is the full address as a single display string.
	FormattedAddress *string `json:"formatted_address,omitempty"`

	Street         *string `json:"street,omitempty"`
	RegNumber      *string `json:"reg_number,omitempty"`
	BuildingNumber *string `json:"building_number,omitempty"`
	PostalCode     *string `json:"postal_code,omitempty"`
	Municipality   *string `json:"municipality,omitempty"`
	Country        *string `json:"country,omitempty"`

	// EstablishedOn is the establishment date (ISO 8601 date string).
	EstablishedOn *string `json:"established_on,omitempty"`

	// TerminatedOn is the termination date, if the body has been terminated.
	TerminatedOn *string `json:"terminated_on,omitempty"`

	// DatahubURL is the external DataHub page for this corporate body.
	DatahubURL *string `json:"datahub_corporate_body_url,omitempty"`
}

// SearchResult is the envelope returned to the tool caller. Count is the
// number of entries parsed from the upstream response page; Results preserves
// upstream order.
type SearchResult struct {
	Count   int             `json:"count"`
	Results []CorporateBody `json:"results"`
}
