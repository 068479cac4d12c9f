package opt

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === CampaignKey ===

// CampaignKey uniquely identifies a reproducible optimization campaign.
// Two campaigns with the same CampaignKey and identical configuration
// MUST produce bit-for-bit identical History and Diagnostics.
type CampaignKey int64

// NewCampaignKey creates a CampaignKey from a seed value.
func NewCampaignKey(seed int64) CampaignKey {
	return CampaignKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemDesign is the RNG subsystem for the initial space-filling design.
	SubsystemDesign = "design"

	// SubsystemModel is the RNG subsystem for surrogate hyperparameter search
	// initialization and refit retries.
	SubsystemModel = "model"

	// SubsystemProposal is the RNG subsystem for batch proposal
	// (Thompson sampling draws).
	SubsystemProposal = "proposal"
)

// SubsystemEvaluation returns the subsystem name for the oracle evaluation of
// candidate idx in the given round. Round 0 is the initial design. Giving each
// evaluation its own substream keeps a batch reproducible even when its
// members are evaluated concurrently.
func SubsystemEvaluation(round, idx int) string {
	return fmt.Sprintf("oracle_r%d_c%d", round, idx)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula: masterSeed XOR fnv1a64(subsystemName).
//
// Thread-safety: ForSubsystem is NOT thread-safe and must be called from a
// single goroutine. The returned *rand.Rand instances are independent, so
// handing each concurrent oracle evaluation its own substream is safe.
type PartitionedRNG struct {
	key        CampaignKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a CampaignKey.
func NewPartitionedRNG(key CampaignKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	derivedSeed := int64(p.key) ^ fnv1a64(name)
	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the CampaignKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() CampaignKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
