package models

// Column names of the flattened company table, in sheet order.
const (
	FieldID                    = "id"
	FieldCompanyName           = "company_name"
	FieldVATCode               = "vat_code"
	FieldTaxCode               = "tax_code"
	FieldAtecoCode             = "ateco_code"
	FieldAtecoDescription      = "ateco_description"
	FieldAtecoSecondary        = "ateco_secondary"
	FieldProvince              = "province"
	FieldTown                  = "town"
	FieldZipCode               = "zip_code"
	FieldAddress               = "address"
	FieldPhone                 = "phone"
	FieldFax                   = "fax"
	FieldEmail                 = "email"
	FieldPEC                   = "pec"
	FieldWebsite               = "website"
	FieldLinkedIn              = "linkedin"
	FieldFacebook              = "facebook"
	FieldTurnover              = "turnover"
	FieldTurnoverYear          = "turnover_year"
	FieldTurnoverRange         = "turnover_range"
	FieldShareCapital          = "share_capital"
	FieldNetWorth              = "net_worth"
	FieldEmployees             = "employees"
	FieldEmployeesRange        = "employees_range"
	FieldEmployeesTrend        = "employees_trend"
	FieldEnterpriseSize        = "enterprise_size"
	FieldNACECode              = "nace_code"
	FieldNACEDescription       = "nace_description"
	FieldPrimarySIC            = "primary_sic"
	FieldPrimarySICDescription = "primary_sic_description"
	FieldLastUpdate            = "last_update"
)

// Headers is the fixed column order of every FlatRow.
var Headers = []string{
	FieldID,
	FieldCompanyName,
	FieldVATCode,
	FieldTaxCode,
	FieldAtecoCode,
	FieldAtecoDescription,
	FieldAtecoSecondary,
	FieldProvince,
	FieldTown,
	FieldZipCode,
	FieldAddress,
	FieldPhone,
	FieldFax,
	FieldEmail,
	FieldPEC,
	FieldWebsite,
	FieldLinkedIn,
	FieldFacebook,
	FieldTurnover,
	FieldTurnoverYear,
	FieldTurnoverRange,
	FieldShareCapital,
	FieldNetWorth,
	FieldEmployees,
	FieldEmployeesRange,
	FieldEmployeesTrend,
	FieldEnterpriseSize,
	FieldNACECode,
	FieldNACEDescription,
	FieldPrimarySIC,
	FieldPrimarySICDescription,
	FieldLastUpdate,
}

// FlatRow maps every header to a scalar value. A nil value means the field
// was not found in the source record; the key itself is always present.
type FlatRow map[string]any

// NewFlatRow returns a row holding every header with a nil value.
func NewFlatRow() FlatRow {
	row := make(FlatRow, len(Headers))
	for _, h := range Headers {
		row[h] = nil
	}

	return row
}

// Get returns the value stored for field and whether it is present (non-nil).
func (r FlatRow) Get(field string) (any, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return nil, false
	}

	return v, true
}

// Values returns the row values in Headers order.
func (r FlatRow) Values() []any {
	values := make([]any, len(Headers))
	for i, h := range Headers {
		values[i] = r[h]
	}

	return values
}
