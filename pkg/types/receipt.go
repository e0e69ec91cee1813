package types

// Receipt confirms a transaction processed by the read API. A receipt carries
// either created table ids or an error describing which statement failed.
type Receipt struct {
	TransactionHash string   `json:"transaction_hash"`
	ChainID         int64    `json:"chain_id"`
	BlockNumber     int64    `json:"block_number"`
	TableID         string   `json:"table_id,omitempty"`
	TableIDs        []string `json:"table_ids,omitempty"`
	Error           string   `json:"error,omitempty"`
	ErrorEventIdx   *int     `json:"error_event_idx,omitempty"`
}

// Failed reports whether the read API recorded an execution error.
func (r Receipt) Failed() bool {
	return r.Error != "" || r.ErrorEventIdx != nil
}

// Transaction identifies a submitted mutation.
type Transaction struct {
	Hash    string `json:"transaction_hash"`
	ChainID int64  `json:"chain_id"`
}

// ExecResult is returned by Database.Exec. Receipt is nil unless the database
// waited for confirmation.
type ExecResult struct {
	Transaction
	Receipt *Receipt `json:"receipt,omitempty"`
}
