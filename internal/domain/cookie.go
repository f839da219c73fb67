package domain

// ClearanceCookie is the cookie name that grants passage through the
// anti-bot challenge.
const ClearanceCookie = "cf_clearance"

type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Cookies []Cookie

// Value returns the value of the first cookie with the given name.
func (cs Cookies) Value(name string) (string, bool) {
	for _, c := range cs {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}
