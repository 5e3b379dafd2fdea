// Package docs provides generated OpenAPI documentation.
//
// outline API
//
//	@title			outline API
//	@version		1.0
//	@description	Recovers the title and heading outline of PDF documents.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/outline
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/outline/serve.go -o ./swagger --parseDependency --parseInternal
