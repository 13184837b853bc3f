package speaker

// BalanceConfig bounds the operator word share considered a healthy
// conversation. Business thresholds, injected so they can be tuned.
type BalanceConfig struct {
	BalancedMin float64 `yaml:"balanced_min"`
	BalancedMax float64 `yaml:"balanced_max"`
}

// DefaultBalanceConfig returns the standard 35-55% operator-share window.
func DefaultBalanceConfig() BalanceConfig {
	return BalanceConfig{BalancedMin: 35, BalancedMax: 55}
}

// ComputeBalance sums word counts per assigned role and classifies the
// split. Transcripts without a recognized role are excluded from both sums.
func ComputeBalance(transcripts []Transcript, cfg BalanceConfig) Balance {
	var operatorWords, clientWords int
	for _, entry := range transcripts {
		switch entry.Role {
		case RoleOperator:
			operatorWords += entry.WordCount
		case RoleClient:
			clientWords += entry.WordCount
		}
	}

	total := operatorWords + clientWords
	if total == 0 {
		return Balance{Quality: BalanceNoData}
	}

	operatorPct := float64(operatorWords) / float64(total) * 100

	quality := BalanceImbalanced
	if operatorPct >= cfg.BalancedMin && operatorPct <= cfg.BalancedMax {
		quality = BalanceBalanced
	}

	return Balance{
		OperatorPercentage: operatorPct,
		ClientPercentage:   100 - operatorPct,
		OperatorWords:      operatorWords,
		ClientWords:        clientWords,
		Quality:            quality,
	}
}
