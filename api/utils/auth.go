// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"bytes"
	"crypto/ecdsa"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"

	"github.com/vechain/jobstake/thor"
)

// Request signature headers.
const (
	SignatureHeader = "X-Signature"
	TimestampHeader = "X-Timestamp"
	NonceHeader     = "X-Nonce"
)

const (
	maxSignedBodySize = 1 << 20
	maxNonceSize      = 64
	// signed requests remembered to reject replays
	seenCapacity = 1 << 16
)

// SigningHash is the hash a caller signs to authenticate a request.
// Fields are length prefixed so no two requests share a preimage.
func SigningHash(method, path string, timestamp int64, nonce string, body []byte) thor.Bytes32 {
	var buf bytes.Buffer
	for _, field := range [][]byte{
		[]byte(method),
		[]byte(path),
		[]byte(strconv.FormatInt(timestamp, 10)),
		[]byte(nonce),
	} {
		buf.WriteString(strconv.Itoa(len(field)))
		buf.WriteByte(':')
		buf.Write(field)
	}
	return thor.Keccak256(buf.Bytes(), body)
}

// SignRequest signs req with key and a fresh nonce. body must be the exact request body.
func SignRequest(req *http.Request, body []byte, key *ecdsa.PrivateKey, now time.Time) error {
	ts := now.Unix()
	nonce := uuid.NewRandom().String()
	hash := SigningHash(req.Method, req.URL.Path, ts, nonce, body)
	sig, err := crypto.Sign(hash.Bytes(), key)
	if err != nil {
		return err
	}
	req.Header.Set(TimestampHeader, strconv.FormatInt(ts, 10))
	req.Header.Set(NonceHeader, nonce)
	req.Header.Set(SignatureHeader, hexutil.Encode(sig))
	return nil
}

type seenKey struct {
	hash   thor.Bytes32
	caller thor.Address
}

// Authenticator recovers the caller of a signed request.
// Each signed request is accepted once.
type Authenticator struct {
	maxSkew time.Duration
	now     func() time.Time

	lock sync.Mutex
	seen *simplelru.LRU
	// requests signed at or before floor may have been forgotten
	floor int64
}

func NewAuthenticator(maxSkew time.Duration) *Authenticator {
	return newAuthenticator(maxSkew, seenCapacity)
}

func newAuthenticator(maxSkew time.Duration, capacity int) *Authenticator {
	a := &Authenticator{
		maxSkew: maxSkew,
		now:     time.Now,
		floor:   -1 << 63,
	}
	a.seen, _ = simplelru.NewLRU(capacity, func(_, value any) {
		if ts := value.(int64); ts > a.floor {
			a.floor = ts
		}
	})
	return a
}

// markSeen records a verified request, failing if it was accepted before.
func (a *Authenticator) markSeen(key seenKey, ts int64) error {
	a.lock.Lock()
	defer a.lock.Unlock()

	if ts <= a.floor {
		return Unauthorized(errors.New("request timestamp too old, sign again"))
	}
	if a.seen.Contains(key) {
		return Unauthorized(errors.New("request already accepted"))
	}
	a.seen.Add(key, ts)
	return nil
}

// Caller verifies the request signature and returns the signer. The request body is preserved.
func (a *Authenticator) Caller(r *http.Request) (thor.Address, error) {
	sigHex := r.Header.Get(SignatureHeader)
	if sigHex == "" {
		return thor.Address{}, Unauthorized(errors.New("missing request signature"))
	}
	ts, err := strconv.ParseInt(r.Header.Get(TimestampHeader), 10, 64)
	if err != nil {
		return thor.Address{}, Unauthorized(errors.WithMessage(err, "timestamp"))
	}
	if skew := a.now().Sub(time.Unix(ts, 0)).Abs(); skew > a.maxSkew {
		return thor.Address{}, Unauthorized(errors.Errorf("request timestamp off by %v", skew))
	}
	nonce := r.Header.Get(NonceHeader)
	if nonce == "" || len(nonce) > maxNonceSize {
		return thor.Address{}, Unauthorized(errors.New("missing or oversized request nonce"))
	}
	sig, err := hexutil.Decode(sigHex)
	if err != nil {
		return thor.Address{}, Unauthorized(errors.WithMessage(err, "signature"))
	}
	if len(sig) != crypto.SignatureLength {
		return thor.Address{}, Unauthorized(errors.New("signature: invalid length"))
	}

	var body []byte
	if r.Body != nil {
		body, err = io.ReadAll(io.LimitReader(r.Body, maxSignedBodySize))
		if err != nil {
			return thor.Address{}, BadRequest(errors.WithMessage(err, "body"))
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	hash := SigningHash(r.Method, r.URL.Path, ts, nonce, body)
	pub, err := crypto.SigToPub(hash.Bytes(), sig)
	if err != nil {
		return thor.Address{}, Unauthorized(errors.WithMessage(err, "signature"))
	}
	caller := thor.Address(crypto.PubkeyToAddress(*pub))
	if err := a.markSeen(seenKey{hash, caller}, ts); err != nil {
		return thor.Address{}, err
	}
	return caller, nil
}
