package host

// RequestData is a value implementation of Request. The GraphQL client
// decodes into it; tests construct it directly.
type RequestData struct {
	RequestID  string
	HostName   string
	PortNum    int
	PathValue  string
	MethodName string
	FullURL    string
	RawQuery   string
	IsTLS      bool
	BodyText   string
	HeaderMap  map[string][]string
	RawText    string
}

func (r *RequestData) ID() string                   { return r.RequestID }
func (r *RequestData) Host() string                 { return r.HostName }
func (r *RequestData) Port() int                    { return r.PortNum }
func (r *RequestData) Path() string                 { return r.PathValue }
func (r *RequestData) Method() string               { return r.MethodName }
func (r *RequestData) URL() string                  { return r.FullURL }
func (r *RequestData) Query() string                { return r.RawQuery }
func (r *RequestData) TLS() bool                    { return r.IsTLS }
func (r *RequestData) Body() string                 { return r.BodyText }
func (r *RequestData) Headers() map[string][]string { return r.HeaderMap }
func (r *RequestData) Raw() string                  { return r.RawText }

// ResponseData is a value implementation of Response.
type ResponseData struct {
	StatusCode int
	BodyText   string
	HeaderMap  map[string][]string
	RawText    string
}

func (r *ResponseData) Code() int                    { return r.StatusCode }
func (r *ResponseData) Body() string                 { return r.BodyText }
func (r *ResponseData) Headers() map[string][]string { return r.HeaderMap }
func (r *ResponseData) Raw() string                  { return r.RawText }
