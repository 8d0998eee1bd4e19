package course

import (
	"fmt"
	"regexp"
)

// domainPattern maps a technical domain to the keyword patterns that
// signal it. Order matters: ties keep the first-seen domain.
type domainPattern struct {
	name     string
	label    string
	patterns []*regexp.Regexp
}

var domainPatterns = []domainPattern{
	{
		name:  "blockchain",
		label: "blockchain and distributed ledger technology",
		patterns: compilePatterns(
			`blockchain`, `distributed ledger`, `consensus`, `proof[- ]of[- ](work|stake)`, `mining`, `merkle`,
		),
	},
	{
		name:  "ai_ml",
		label: "artificial intelligence and machine learning",
		patterns: compilePatterns(
			`machine learning`, `neural network`, `deep learning`, `training data`, `transformer`, `gradient`,
		),
	},
	{
		name:  "cryptography",
		label: "cryptography and information security",
		patterns: compilePatterns(
			`encryption`, `cryptograph`, `cipher`, `public[- ]key`, `digital signature`, `hash function`,
		),
	},
	{
		name:  "distributed_systems",
		label: "distributed systems",
		patterns: compilePatterns(
			`distributed system`, `replication`, `fault toleran`, `partition`, `leader election`, `byzantine`,
		),
	},
	{
		name:  "web3",
		label: "web3 and decentralized applications",
		patterns: compilePatterns(
			`smart contract`, `ethereum`, `defi`, `token(omics)?`, `dapp`, `wallet`,
		),
	},
}

func compilePatterns(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		patterns[i] = regexp.MustCompile(`(?i)` + expr)
	}
	return patterns
}

// domainHint scores the document against the fixed domain keyword sets and
// returns a hint for the structure prompt. The domain with the most pattern
// matches wins; a strict comparison keeps the first-seen domain on ties, and
// zero matches yields a generic hint.
func domainHint(text string) string {
	best := ""
	bestCount := 0

	for _, domain := range domainPatterns {
		count := 0
		for _, pattern := range domain.patterns {
			count += len(pattern.FindAllStringIndex(text, -1))
		}
		if count > bestCount {
			best = domain.label
			bestCount = count
		}
	}

	if bestCount == 0 {
		return "This is a technical document."
	}
	return fmt.Sprintf("This document appears to cover %s.", best)
}
