package auth

import (
	"crypto/md5"
	"encoding/hex"
)

// PasswordDigest computes the hex-encoded MD5 digest of a password.
//
// MD5 is a fast, unsalted hash and unsuitable for new credential
// stores; it is kept here because every stored password row was written
// by the legacy system and must keep matching bit-for-bit. Migrating to
// a salted slow hash requires a rehash-on-login rollout first.
func PasswordDigest(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}
