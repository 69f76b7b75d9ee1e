package domain

// StoreItem is one record in the verification code store: an opaque string
// value under a string key. ExpiresAt is a Unix timestamp used as the
// DynamoDB TTL attribute.
//
// Two kinds of record share this shape:
//   - "code:<6-digit>"  -> account id (the primary mapping)
//   - "user:<accountId>" -> JSON array of outstanding codes (advisory
//     cleanup index; may be stale or missing without affecting matching)
type StoreItem struct {
	Key       string `json:"k" dynamodbav:"k"`
	Value     string `json:"v" dynamodbav:"v"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}

// CodeKey returns the store key holding the account a code was issued to.
func CodeKey(code string) string { return "code:" + code }

// AccountKey returns the store key holding an account's outstanding codes.
func AccountKey(accountID string) string { return "user:" + accountID }
