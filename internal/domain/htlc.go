package domain

import "time"

// HashAlgorithm enumerates the hash functions an HTLC preimage may be checked
// against. Values are part of the storage schema and must not be renumbered.
type HashAlgorithm uint8

const (
	HashUnknown   HashAlgorithm = 0x00
	HashRIPEMD160 HashAlgorithm = 0x01
	HashSHA256    HashAlgorithm = 0x02
	HashSHA1      HashAlgorithm = 0x03
)

func (h HashAlgorithm) String() string {
	switch h {
	case HashRIPEMD160:
		return "ripemd160"
	case HashSHA256:
		return "sha256"
	case HashSHA1:
		return "sha1"
	default:
		return "unknown"
	}
}

// HTLCContract is the stored form of a hash-time-locked contract. Only the
// schema and its access paths (by expiration, by originator) are defined here;
// redeem-by-preimage and refund-by-expiration evaluators live outside this
// core and no redemption semantics may be inferred from these fields.
type HTLCContract struct {
	ID string

	Originator  AccountID
	Beneficiary AccountID

	Amount     Asset
	Expiration time.Time
	PendingFee Asset

	PreimageHash  []byte
	HashAlgorithm HashAlgorithm
	// PreimageSize is the expected byte length of a redeeming preimage.
	PreimageSize uint16

	CreatedAt time.Time
}
