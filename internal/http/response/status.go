package response

const (
	statusOK       = "HTTP/1.1 200 OK\r\n"
	statusRedirect = "HTTP/1.1 301 Moved Permanently\r\n"
)

var BadRequestResponse = []byte("HTTP/1.1 400 Bad Request\r\n" +
	"Content-Type: text/html\r\n" +
	"Content-Length: 16\r\n\r\n" +
	" 400 Bad Request")

var NotFoundResponse = []byte("HTTP/1.1 404 Not Found\r\n" +
	"Content-Type: text/html\r\n" +
	"Content-Length: 13\r\n\r\n" +
	"404 Not Found")
