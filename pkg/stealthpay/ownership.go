package stealthpay

import (
	"strings"

	"github.com/smallyu/go-stealth/internal/crypto/curves"
	"github.com/smallyu/go-stealth/internal/crypto/zk/schnorr"
)

// ProveOwnership proves control of the stealth address whose private key
// is stealthPriv, without revealing the key. context binds the proof to
// one use, such as a verifier's challenge.
func (p *Protocol) ProveOwnership(stealthPriv, context []byte) ([]byte, error) {
	x, err := curves.ParsePrivateScalar("stealth private key", stealthPriv)
	if err != nil {
		return nil, err
	}
	defer x.Zero()
	X, err := curves.BasePointMul(x)
	if err != nil {
		return nil, err
	}

	proof, err := schnorr.Prove(p.rand, x, X, context)
	if err != nil {
		return nil, err
	}
	return proof.Bytes(), nil
}

// VerifyOwnership reports whether proof shows control of addr. stealthPub
// must encode to addr on the protocol's chain. Malformed inputs are
// errors; a well-formed proof that does not verify is (false, nil).
func (p *Protocol) VerifyOwnership(addr string, stealthPub, context, proof []byte) (bool, error) {
	X, err := curves.Decompress("stealth public key", stealthPub)
	if err != nil {
		return false, err
	}
	got, err := p.enc.Encode(X.Compress())
	if err != nil {
		return false, err
	}
	if !strings.EqualFold(got, addr) {
		return false, nil
	}

	pr, err := schnorr.ParseProof(proof)
	if err != nil {
		return false, err
	}
	return pr.Verify(X, context), nil
}
