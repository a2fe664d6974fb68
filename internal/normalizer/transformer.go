package normalizer

import (
	"fmt"
	"strings"
	"time"

	"companyexport/internal/models"
)

// LastUpdateLayout is the output layout of reformatted timestamps.
const LastUpdateLayout = "2006-01-02 15:04:05"

// isoLayouts are tried in order when reformatting a last-update timestamp.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04Z0700",
	"2006-01-02 15:04",
	time.DateOnly,
}

// fieldRule resolves one output column. Either paths or resolve is set.
type fieldRule struct {
	resolve func(models.RawRecord) any
	name    string
	paths   []path
}

// Transformer flattens raw company records into fixed rows.
type Transformer struct {
	rules []fieldRule
}

// NewTransformer creates a transformer with the company field rules.
func NewTransformer() *Transformer {
	return &Transformer{rules: companyRules()}
}

func companyRules() []fieldRule {
	return []fieldRule{
		{name: models.FieldID, paths: []path{p("id"), p("companyDetails", "openapiNumber")}},
		{name: models.FieldCompanyName, paths: []path{p("companyDetails", "companyName"), p("companyName")}},
		{name: models.FieldVATCode, paths: []path{p("companyDetails", "vatCode"), p("vatCode")}},
		{name: models.FieldTaxCode, paths: []path{p("companyDetails", "taxCode"), p("taxCode")}},
		{name: models.FieldAtecoCode, paths: []path{p("atecoClassification", "ateco", "code"), p("atecoCode")}},
		{name: models.FieldAtecoDescription, paths: []path{p("atecoClassification", "ateco", "description")}},
		{name: models.FieldAtecoSecondary, paths: []path{p("atecoClassification", "secondaryAteco")}},
		{name: models.FieldProvince, paths: []path{
			p("address", "registeredOffice", "province", "code"),
			p("address", "registeredOffice", "province"),
		}},
		{name: models.FieldTown, paths: []path{p("address", "registeredOffice", "town"), p("address", "town")}},
		{name: models.FieldZipCode, paths: []path{p("address", "registeredOffice", "zipCode"), p("address", "zipCode")}},
		{name: models.FieldAddress, resolve: resolveAddress},
		{name: models.FieldPhone, paths: []path{p("contacts", "telephoneNumber")}},
		{name: models.FieldFax, paths: []path{p("contacts", "fax")}},
		{name: models.FieldEmail, paths: []path{p("mail", "email")}},
		{name: models.FieldPEC, paths: []path{p("pec", "pec")}},
		{name: models.FieldWebsite, paths: []path{p("webAndSocial", "website")}},
		{name: models.FieldLinkedIn, paths: []path{p("webAndSocial", "linkedin")}},
		{name: models.FieldFacebook, paths: []path{p("webAndSocial", "facebook")}},
		{name: models.FieldTurnover, paths: []path{p("ecofin", "turnover")}},
		{name: models.FieldTurnoverYear, paths: []path{p("ecofin", "turnoverYear")}},
		{name: models.FieldTurnoverRange, paths: []path{p("ecofin", "turnoverRange", "description")}},
		{name: models.FieldShareCapital, paths: []path{p("ecofin", "shareCapital")}},
		{name: models.FieldNetWorth, paths: []path{p("ecofin", "netWorth")}},
		{name: models.FieldEmployees, paths: []path{p("employees", "employee")}},
		{name: models.FieldEmployeesRange, paths: []path{p("employees", "employeeRange", "description")}},
		{name: models.FieldEmployeesTrend, paths: []path{p("employees", "employeeTrend")}},
		{name: models.FieldEnterpriseSize, paths: []path{p("ecofin", "enterpriseSize", "description")}},
		{name: models.FieldNACECode, paths: []path{p("internationalClassification", "nace", "code")}},
		{name: models.FieldNACEDescription, paths: []path{p("internationalClassification", "nace", "description")}},
		{name: models.FieldPrimarySIC, paths: []path{p("internationalClassification", "primarySic", "code")}},
		{name: models.FieldPrimarySICDescription, paths: []path{p("internationalClassification", "primarySic", "description")}},
		{name: models.FieldLastUpdate, resolve: resolveLastUpdate},
	}
}

// Transform flattens one record. It never fails: fields that cannot be
// resolved stay nil.
func (t *Transformer) Transform(record models.RawRecord) models.FlatRow {
	row := models.NewFlatRow()
	if record == nil {
		return row
	}

	for _, rule := range t.rules {
		if rule.resolve != nil {
			row[rule.name] = rule.resolve(record)
			continue
		}

		row[rule.name] = firstOf(record, rule.paths...)
	}

	return row
}

var defaultTransformer = NewTransformer()

// Flatten flattens record with the default company rules.
func Flatten(record models.RawRecord) models.FlatRow {
	return defaultTransformer.Transform(record)
}

// resolveAddress joins toponym, street (or streetName) and street number of the
// registered office, falling back to the loose address street name.
func resolveAddress(record models.RawRecord) any {
	if composed := composeAddress(lookup(record, p("address", "registeredOffice"))); composed != "" {
		return composed
	}

	return scalar(lookup(record, p("address", "streetName")))
}

func composeAddress(office any) string {
	m, ok := asObject(office)
	if !ok {
		return ""
	}

	var parts []string

	if v := scalar(m["toponym"]); present(v) {
		parts = append(parts, fmt.Sprint(v))
	}

	if v := scalar(m["street"]); present(v) {
		parts = append(parts, fmt.Sprint(v))
	} else if v := scalar(m["streetName"]); present(v) {
		parts = append(parts, fmt.Sprint(v))
	}

	if v := scalar(m["streetNumber"]); present(v) {
		parts = append(parts, fmt.Sprint(v))
	}

	return strings.Join(parts, " ")
}

func resolveLastUpdate(record models.RawRecord) any {
	v := firstOf(record, p("companyDetails", "lastUpdateDate"), p("lastUpdateDate"))
	if s, ok := v.(string); ok {
		return FormatTimestamp(s)
	}

	return v
}

// FormatTimestamp rewrites an ISO-8601 timestamp as LastUpdateLayout in its own
// offset. Text that does not parse is returned unchanged.
func FormatTimestamp(s string) string {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(LastUpdateLayout)
		}
	}

	return s
}
