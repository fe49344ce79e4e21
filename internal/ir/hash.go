package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainPipeline = "hyperpipe/pipeline/v1"
	DomainTrace    = "hyperpipe/trace/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// PipelineDigest computes the content digest of an aligned pipeline.
// Identical inputs aligned in the same fold order produce identical digests.
func PipelineDigest(p *Pipeline) (string, error) {
	canonical, err := MarshalCanonical(p)
	if err != nil {
		return "", fmt.Errorf("PipelineDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainPipeline, canonical), nil
}

// TraceDigest computes the content digest of a single entity trace.
func TraceDigest(t EntityTrace) (string, error) {
	p := NewPipeline(t)
	canonical, err := MarshalCanonical(p)
	if err != nil {
		return "", fmt.Errorf("TraceDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTrace, canonical), nil
}

// MustPipelineDigest is like PipelineDigest but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustPipelineDigest(p *Pipeline) string {
	d, err := PipelineDigest(p)
	if err != nil {
		panic(err)
	}
	return d
}
