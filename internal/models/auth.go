package models

// Credentials identify this application to the RTE authorization server.
type Credentials struct {
	ClientId     string
	ClientSecret string
}

func NewCredentials(clientId, clientSecret string) Credentials {
	return Credentials{
		ClientId:     clientId,
		ClientSecret: clientSecret,
	}
}

// ApiErrorBody is the structured payload RTE sends with 4xx and 5xx responses.
type ApiErrorBody struct {
	Error            string            `json:"error"`
	ErrorDescription string            `json:"error_description"`
	ErrorUri         string            `json:"error_uri"`
	ErrorDetails     map[string]string `json:"error_details"`
}
