package logging

// Standardized field names for structured logging, so log lines from the
// fetch layer, the pipeline and the CLI can be filtered the same way.
const (
	FieldRunID         = "run_id"
	FieldSource        = "source"
	FieldResource      = "resource"
	FieldTransactionID = "transaction_id"
	FieldExpenseID     = "expense_id"
	FieldCategory      = "category"
	FieldMonth         = "month"
	FieldReason        = "reason"
	FieldOperation     = "operation"
	FieldStatus        = "status"
	FieldDuration      = "duration_ms"
	FieldCount         = "count"
	FieldPage          = "page"
	FieldURL           = "url"
	FieldOutputFile    = "output_file"
)
