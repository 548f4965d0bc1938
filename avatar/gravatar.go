package avatar

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"
)

const gravatarBaseURL = "https://www.gravatar.com/avatar/"

// GravatarURL returns the gravatar image URL for email. The same email
// always yields the same URL.
func GravatarURL(email string, size int, rating, fallback string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))

	q := url.Values{}
	q.Set("s", strconv.Itoa(size))
	q.Set("r", rating)
	q.Set("d", fallback)

	return gravatarBaseURL + hex.EncodeToString(sum[:]) + "?" + q.Encode()
}
