package localdata

// Storage keys, mirroring the browser-era client.
const (
	KeyUser      = "cyberboy_user"
	KeySessionID = "cyberboy_session_id"
	KeyTheme     = "cyberboy_theme"
	KeyUsage     = "cyberboy_chatbot_data"
)

// Store is the client-local persistence boundary. Values are whole
// strings and writes overwrite; last write wins. The interface exists
// so tests can substitute an in-memory implementation.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}
