package symbols

import "github.com/minio/highwayhash"

var hashKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// SignatureHash hashes a function's rendered C signature text so the
// Pipeline can tell whether a function's signature changed between two
// runs by an O(1) integer comparison instead of a full string diff
// (§8.1). Grounded directly on inspector/graph.Hash in the teacher.
func SignatureHash(signatureText string) (uint64, error) {
	hash, err := highwayhash.New64(hashKey)
	if err != nil {
		return 0, err
	}
	_, err = hash.Write([]byte(signatureText))
	return hash.Sum64(), err
}
