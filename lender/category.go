package lender

import (
	"fmt"
	"sort"
)

// Category tags one of the financing product lines. Each category has its own
// field schema and Postgres table.
type Category string

const (
	CategoryDSCR                  Category = "dscr"
	CategoryEquipment             Category = "equipment"
	CategoryMCA                   Category = "mca"
	CategoryMCADebtRestructuring  Category = "mca_debt_restructuring"
	CategoryTermLoans             Category = "term_loans"
	CategoryConventionalTLLOC     Category = "conventional_tl_loc"
	CategorySBA                   Category = "sba"
	CategoryBusinessLineOfCredit  Category = "business_line_of_credit"
)

// FieldKind describes how a schema field is interpreted.
type FieldKind string

const (
	KindText FieldKind = "text"
	KindEnum FieldKind = "enum"
	// KindNumeric is a numeric value stored as a string, the way the lender
	// sheets record loan amounts and credit scores.
	KindNumeric FieldKind = "numeric-string"
)

// FieldSpec declares one business field of a category schema.
type FieldSpec struct {
	Name     string
	Kind     FieldKind
	Required bool
	Enum     []string
}

// Schema is the full field layout of one category.
type Schema struct {
	Category Category
	Table    string
	Fields   []FieldSpec
	// SearchFields are matched, together with lender_name, by free-text
	// criteria. Which contact column exists differs per category.
	SearchFields []string
	// HasSortOrder marks categories where a manual priority integer
	// overrides alphabetical ordering.
	HasSortOrder bool
}

// FieldLenderName is required by every category.
const FieldLenderName = "lender_name"

func textField(name string) FieldSpec    { return FieldSpec{Name: name, Kind: KindText} }
func numericField(name string) FieldSpec { return FieldSpec{Name: name, Kind: KindNumeric} }

var registry = map[Category]Schema{
	CategoryDSCR: {
		Category: CategoryDSCR,
		Table:    "lenders_dscr",
		Fields: []FieldSpec{
			{Name: FieldLenderName, Kind: KindText, Required: true},
			textField("contact_person"),
			textField("phone"),
			textField("email"),
			textField("submission_process"),
			numericField("min_loan_amount"),
			numericField("max_loan_amount"),
			textField("max_ltv"),
			textField("credit_requirement"),
			textField("rural"),
			textField("states"),
			textField("drive_link"),
		},
		SearchFields: []string{"contact_person"},
	},
	CategoryEquipment: {
		Category: CategoryEquipment,
		Table:    "lenders_equipment_financing",
		Fields: []FieldSpec{
			{Name: FieldLenderName, Kind: KindText, Required: true},
			textField("iso_rep"),
			textField("phone"),
			textField("email"),
			textField("submission_process"),
			textField("minimum_credit_requirement"),
			textField("min_time_in_business"),
			numericField("min_loan_amount"),
			numericField("max_loan_amount"),
			textField("terms"),
			textField("rates"),
			textField("do_positions_matter"),
			textField("financing_types"),
			textField("states_restrictions"),
			textField("preferred_equipment"),
			textField("equipment_restrictions"),
			textField("website"),
			textField("notes"),
		},
		SearchFields: []string{"iso_rep"},
	},
	CategoryMCA: {
		Category: CategoryMCA,
		Table:    "lenders_mca",
		Fields: []FieldSpec{
			{Name: FieldLenderName, Kind: KindText, Required: true},
			textField("iso_rep"),
			textField("website"),
			textField("phone"),
			textField("email"),
			textField("paper"),
			textField("minimum_credit_requirement"),
			numericField("minimum_loan_amount"),
			numericField("max_loan_amount"),
			textField("products_offered"),
			textField("preferred_industries"),
			textField("restricted_industries"),
			textField("submission_type"),
			textField("google_drive"),
			textField("notes"),
		},
		SearchFields: []string{"iso_rep"},
		HasSortOrder: true,
	},
	CategoryMCADebtRestructuring: {
		Category: CategoryMCADebtRestructuring,
		Table:    "lenders_mca_debt_restructuring",
		Fields: []FieldSpec{
			{Name: FieldLenderName, Kind: KindText, Required: true},
			textField("contact_person"),
			textField("phone"),
			textField("email"),
			textField("website"),
			textField("products_offered"),
			numericField("min_loan_amount"),
			numericField("max_loan_amount"),
			textField("states_available"),
			textField("credit_requirement"),
			textField("notes"),
		},
		SearchFields: []string{"contact_person"},
	},
	CategoryTermLoans: {
		Category: CategoryTermLoans,
		Table:    "lenders_term_loans",
		Fields: []FieldSpec{
			{Name: FieldLenderName, Kind: KindText, Required: true},
			textField("contact_person"),
			textField("phone"),
			textField("email"),
			textField("submission_docs"),
			textField("submission_process"),
			textField("timeline"),
			textField("states_available"),
			textField("products_offered"),
			numericField("min_loan_amount"),
			numericField("max_loan_amount"),
			textField("use_of_funds"),
			textField("credit_requirement"),
			textField("preferred_industries"),
			textField("restricted_industries"),
			textField("notes"),
		},
		SearchFields: []string{"contact_person"},
	},
	CategoryConventionalTLLOC: {
		Category: CategoryConventionalTLLOC,
		Table:    "lenders_conventional_tl_loc",
		Fields: []FieldSpec{
			{Name: FieldLenderName, Kind: KindText, Required: true},
			textField("contact_person"),
			textField("phone"),
			textField("email"),
			textField("states_available"),
			textField("submission_process"),
			textField("docs_required"),
			textField("timeline"),
			textField("terms"),
			textField("rates"),
			numericField("min_loan_amount"),
			numericField("max_loan_amount"),
			textField("credit_requirement"),
			textField("banking_relationship_required"),
			textField("bank_account_opened_to_fund"),
			textField("use_of_funds"),
			textField("preferred_industries"),
			textField("restricted_industries"),
			textField("notes"),
		},
		SearchFields: []string{"contact_person"},
	},
	CategorySBA: {
		Category: CategorySBA,
		Table:    "lenders_sba",
		Fields: []FieldSpec{
			{Name: FieldLenderName, Kind: KindText, Required: true},
			textField("website"),
			textField("contact_person"),
			textField("phone"),
			textField("email"),
			textField("submission_docs"),
			textField("submission_type"),
			textField("submission_process"),
			textField("timeline"),
			textField("states_available"),
			textField("products_offered"),
			numericField("minimum_loan_amount"),
			numericField("max_loan_amount"),
			textField("use_of_funds"),
			numericField("credit_requirement"),
			textField("preferred_industries"),
			textField("industry_restrictions"),
			textField("google_drive"),
			textField("note"),
		},
		SearchFields: []string{"contact_person"},
		HasSortOrder: true,
	},
	CategoryBusinessLineOfCredit: {
		Category: CategoryBusinessLineOfCredit,
		Table:    "lenders_business_line_of_credit",
		Fields: []FieldSpec{
			{Name: FieldLenderName, Kind: KindText, Required: true},
			{Name: "bank_non_bank", Kind: KindEnum, Enum: []string{"Bank", "Non-Bank"}},
			textField("website"),
			textField("iso_contacts"),
			textField("phone"),
			textField("email"),
			numericField("credit_requirement"),
			textField("credit_used"),
			textField("min_time_in_business"),
			numericField("minimum_deposit_count"),
			textField("min_monthly_revenue_amount"),
			textField("min_avg_daily_balance"),
			numericField("max_loan"),
			textField("positions"),
			textField("products_offered"),
			textField("terms"),
			textField("payments"),
			textField("draw_fees"),
			textField("preferred_industries"),
			textField("restricted_industries"),
			textField("ineligible_states"),
			textField("submission_docs"),
			textField("submission_type"),
			textField("submission_process"),
			textField("drive_link"),
			textField("notes"),
		},
		SearchFields: []string{"iso_contacts"},
		HasSortOrder: true,
	},
}

// Lookup returns the schema for a category.
func Lookup(category Category) (Schema, error) {
	sch, ok := registry[category]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return sch, nil
}

// Categories lists every registered category in a stable order.
func Categories() []Category {
	out := make([]Category, 0, len(registry))
	for c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s Schema) field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

func (f FieldSpec) allows(value string) bool {
	if f.Kind != KindEnum || value == "" {
		return true
	}
	for _, v := range f.Enum {
		if v == value {
			return true
		}
	}
	return false
}

// ValidateForm checks caller-supplied form data against the category schema:
// every required field present and non-empty, every supplied field declared,
// every enum value recognized.
func ValidateForm(category Category, form FormData) error {
	sch, err := Lookup(category)
	if err != nil {
		return err
	}
	for name, value := range form.Fields {
		spec, ok := sch.field(name)
		if !ok {
			return fmt.Errorf("%w: field %q not in %s schema", ErrValidation, name, category)
		}
		if !spec.allows(value) {
			return fmt.Errorf("%w: field %q has unrecognized value %q", ErrValidation, name, value)
		}
	}
	for _, spec := range sch.Fields {
		if spec.Required && form.Fields[spec.Name] == "" {
			return fmt.Errorf("%w: missing required field %q", ErrValidation, spec.Name)
		}
	}
	if form.Status != "" && !form.Status.Valid() {
		return fmt.Errorf("%w: unrecognized status %q", ErrValidation, form.Status)
	}
	if form.Relationship != "" && !form.Relationship.Valid() {
		return fmt.Errorf("%w: unrecognized relationship %q", ErrValidation, form.Relationship)
	}
	return nil
}

// ValidateRecord reports whether a normalized record satisfies its schema.
func ValidateRecord(category Category, rec Record) bool {
	sch, err := Lookup(category)
	if err != nil {
		return false
	}
	for _, spec := range sch.Fields {
		value, ok := rec.Fields[spec.Name]
		if !ok {
			return false
		}
		if spec.Required && value == "" {
			return false
		}
		if !spec.allows(value) {
			return false
		}
	}
	return rec.Status.Valid() && rec.Relationship.Valid()
}
