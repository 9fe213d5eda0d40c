package warehouse

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Measurement is one contract's current figures in the ERP mirror
type Measurement struct {
	ContractCode    string
	MeasuredValue   float64
	BillingProgress float64
}

const measurementQuery = `
SELECT contract_code, measured_value, billing_progress
FROM dbo.vw_contract_measurements
WHERE contract_code IS NOT NULL`

// FetchMeasurements reads the current measurement row of every contract
func (c *Client) FetchMeasurements(ctx context.Context) ([]Measurement, error) {
	rows, err := c.ExecuteQuery(ctx, measurementQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch measurements: %w", err)
	}

	out := make([]Measurement, 0, len(rows))
	for _, row := range rows {
		m := Measurement{}
		code, ok := row["contract_code"].(string)
		if !ok || code == "" {
			continue
		}
		m.ContractCode = code
		m.MeasuredValue = toFloat(row["measured_value"])
		m.BillingProgress = toFloat(row["billing_progress"])
		out = append(out, m)
	}

	c.logger.Debug("measurements fetched", zap.Int("rows", len(out)))
	return out, nil
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case []byte:
		var f float64
		fmt.Sscanf(string(n), "%f", &f)
		return f
	default:
		return 0
	}
}
