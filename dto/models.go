package dto

import "time"

type RowType string

const (
	RowTypeMainCategory RowType = "main_category"
	RowTypeSubcategory  RowType = "subcategory"
	RowTypeItem         RowType = "item"
	RowTypeBlank        RowType = "blank"
)

// Source labels for line-item provenance
const (
	SourceInitial  = "Initial"
	SourceAddendum = "Addendum"
)

// ContractLineItem is one flattened row of a contract's order-items table.
// Hierarchy is not nested: it is reconstructed from document order plus the
// MainCategory/SubCategory back-references to the nearest preceding headers.
type ContractLineItem struct {
	Type           RowType  `json:"type"`
	ProductService string   `json:"product_service"`
	Qty            *float64 `json:"qty"`
	Rate           *float64 `json:"rate"`
	Amount         *float64 `json:"amount"`
	MainCategory   string   `json:"main_category,omitempty"`
	SubCategory    string   `json:"sub_category,omitempty"`
	SourceLabel    string   `json:"source_label"`
	AddendumNumber *int     `json:"addendum_number,omitempty"`
}

// ExtractedLocation holds contract metadata parsed independently of the
// item list. Immutable once produced.
type ExtractedLocation struct {
	OrderNumber     string     `json:"order_number,omitempty"`
	CustomerName    string     `json:"customer_name,omitempty"`
	CustomerAddress string     `json:"customer_address,omitempty"`
	CustomerEmail   string     `json:"customer_email,omitempty"`
	SalesRep        string     `json:"sales_rep,omitempty"`
	OrderDate       *time.Time `json:"order_date,omitempty"`
	SignedDate      *time.Time `json:"signed_date,omitempty"`
	GrandTotal      *float64   `json:"grand_total,omitempty"`
	BalanceDue      *float64   `json:"balance_due,omitempty"`
}

type ReferenceType string

const (
	RefTypeOriginal        ReferenceType = "original"
	RefTypeOptionalPackage ReferenceType = "optional_package"
	RefTypeAddendum        ReferenceType = "addendum"
)

// AddendumReference is one linked contract section discovered by scanning
// the rendered page text. Selected defaults encode a business rule: the
// original contract and addenda are commitments (true), optional packages
// are alternatives the customer may not have accepted (false).
type AddendumReference struct {
	Type        ReferenceType `json:"type"`
	Number      *int          `json:"number,omitempty"`
	Name        string        `json:"name,omitempty"`
	Selected    bool          `json:"selected"`
	ResolvedURL string        `json:"resolved_url,omitempty"`
}

type ResolutionStatus string

const (
	StatusSuccess ResolutionStatus = "success"
	StatusWarning ResolutionStatus = "warning"
	StatusFailure ResolutionStatus = "failure"
)

// AddendumStatus reports the outcome of resolving one reference. Failures
// are isolated per reference and never abort the batch.
type AddendumStatus struct {
	Reference AddendumReference `json:"reference"`
	Status    ResolutionStatus  `json:"status"`
	Detail    string            `json:"detail,omitempty"`
}

// ValidationResult compares the summed item amounts against the contract's
// declared grand total.
type ValidationResult struct {
	IsValid         bool    `json:"is_valid"`
	OrderGrandTotal float64 `json:"order_grand_total"`
	ItemsTotal      float64 `json:"items_total"`
	Difference      float64 `json:"difference"`
}

// TableExtract is the output of the tabular structure extractor. HasTable
// distinguishes "document had no recognizable table" from "table was empty".
type TableExtract struct {
	Items    []ContractLineItem `json:"items"`
	HasTable bool               `json:"has_table"`
}

// DecodedAttachment is a non-body MIME part carried by the email.
type DecodedAttachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// DecodedMessage is the body pair unwrapped from a raw email container.
type DecodedMessage struct {
	Text        string              `json:"text"`
	HTML        string              `json:"html"`
	Attachments []DecodedAttachment `json:"attachments,omitempty"`
}

// SynthesisResult is the populated workbook plus its transport filename.
// Truncation is a reported condition, not an error: rows beyond the
// template ceiling are excluded from the written cells but remain in the
// caller's in-memory sequence.
type SynthesisResult struct {
	Data          []byte `json:"-"`
	Filename      string `json:"filename"`
	RowsWritten   int    `json:"rows_written"`
	Truncated     bool   `json:"truncated"`
	TruncatedRows int    `json:"truncated_rows"`
}
