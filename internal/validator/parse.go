package validator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mesh-intelligence/tableland/pkg/types"
)

// receiptOutcomeFields are the fields of which a receipt must carry at least one.
var receiptOutcomeFields = []string{"table_id", "table_ids", "error", "error_event_idx"}

// parseReceipt checks the receipt shape and decodes it. Shape problems are
// reported as types.ErrMalformedResponse and are never retried.
func parseReceipt(body []byte) (*types.Receipt, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: receipt body is not valid json", types.ErrMalformedResponse)
	}
	res := gjson.ParseBytes(body)
	if !res.IsObject() {
		return nil, fmt.Errorf("%w: receipt body is not an object", types.ErrMalformedResponse)
	}

	var problems []string
	if f := res.Get("block_number"); f.Type != gjson.Number {
		problems = append(problems, "block_number")
	}
	if f := res.Get("chain_id"); f.Type != gjson.Number {
		problems = append(problems, "chain_id")
	}
	if f := res.Get("transaction_hash"); f.Type != gjson.String || f.String() == "" {
		problems = append(problems, "transaction_hash")
	}
	hasOutcome := false
	for _, name := range receiptOutcomeFields {
		if present(res.Get(name)) {
			hasOutcome = true
			break
		}
	}
	if !hasOutcome {
		problems = append(problems, strings.Join(receiptOutcomeFields, "|"))
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: receipt missing or invalid %s",
			types.ErrMalformedResponse, strings.Join(problems, ", "))
	}

	r := &types.Receipt{
		TransactionHash: res.Get("transaction_hash").String(),
		ChainID:         res.Get("chain_id").Int(),
		BlockNumber:     res.Get("block_number").Int(),
		TableID:         res.Get("table_id").String(),
		Error:           res.Get("error").String(),
	}
	for _, id := range res.Get("table_ids").Array() {
		r.TableIDs = append(r.TableIDs, id.String())
	}
	if r.TableID == "" && len(r.TableIDs) > 0 {
		r.TableID = r.TableIDs[0]
	}
	if idx := res.Get("error_event_idx"); present(idx) {
		v := int(idx.Int())
		r.ErrorEventIdx = &v
	}
	return r, nil
}

// present reports whether f is set to a non-null value.
func present(f gjson.Result) bool {
	return f.Exists() && f.Type != gjson.Null
}

// parseRows decodes a query answer in objects format.
func parseRows(body []byte) ([]map[string]any, error) {
	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("%w: query rows: %w", types.ErrMalformedResponse, err)
	}
	return rows, nil
}
