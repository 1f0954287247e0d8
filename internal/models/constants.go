// Package models provides the data structures shared by the fetch layer, the
// normalization pipeline and the aggregation engine.
package models

// Category ids and names with special meaning.
const (
	// CategoryIDTransfer marks internal movements between the user's own
	// accounts. Transactions in this category never reach the canonical table.
	CategoryIDTransfer = "transfer"

	// CategoryUncategorized is the display name used when a transaction has no
	// category or an unknown one.
	CategoryUncategorized = "Uncategorized"
)

// Transaction types reported by the provider.
const (
	TransactionTypeSalary   = "Salary"
	TransactionTypeTransfer = "Transfer"
	TransactionTypeRoundUp  = "Round Up"
)

// MonthKeyLayout formats a date as a "YYYY-MM" month key. Month keys compare
// chronologically as plain strings.
const MonthKeyLayout = "2006-01"

// File permissions
const (
	PermissionDataFile   = 0600
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
