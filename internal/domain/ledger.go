package domain

// RawAmount is an amount exactly as the upstream sent it. It is empty when the
// value was absent or null and may hold text that is not a number at all.
type RawAmount string

// LedgerEntry is one flat row of the upstream chart of accounts.
type LedgerEntry struct {
	AccountCode string
	AccountName string
	Debit       RawAmount
	Credit      RawAmount
}
