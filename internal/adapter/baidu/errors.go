package baidu

import "fmt"

// QueryError reports a request the Baidu API rejected: bad credential, bad
// parameters, permission or quota failure, or an unmapped provider status.
// It is only returned when the provider's result collection is empty and the
// status field is not the version's pass value; transport failures propagate
// as plain wrapped errors instead.
type QueryError struct {
	Status  string // provider status value as reported
	Message string // human-readable cause from the version's status table
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("baidu: %s (status %s)", e.Message, e.Status)
}
