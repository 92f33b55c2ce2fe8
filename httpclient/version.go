package httpclient

// Version is the library version advertised in the User-Agent header.
const Version = "0.1.0"
