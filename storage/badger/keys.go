package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/cvindex/core"
)

// Key prefixes for different data types
const (
	profileRecordPrefix = "prorec"
	profileEmailPrefix  = "proem"
	profileDocPrefix    = "prodoc"
	profileIDSeq        = "prorecseq"
)

// makeProfileKey generates a key for a profile by ID.
func makeProfileKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", profileRecordPrefix, id))
}

// makeEmailKey generates a key for the unique email index.
// The email is hashed to a fixed-width value so keys stay bounded and
// carry no personal data.
func makeEmailKey(email string) []byte {
	return makeHashedIndexKey(profileEmailPrefix, email)
}

// makeDocPathKey generates a key for the unique document path index.
func makeDocPathKey(path string) []byte {
	return makeHashedIndexKey(profileDocPrefix, path)
}

// makeHashedIndexKey builds prefix:hash(content) with an 8-byte BigEndian hash.
func makeHashedIndexKey(prefix, content string) []byte {
	prefixBytes := []byte(prefix + ":")
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(core.IDFromContent(content)))
	return buf
}
