// @title           Evidence Hybrid Search API
// @version         1.0
// @description     This API indexes legal evidence into dual keyword/vector stores and serves hybrid search over it.
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.url
// @contact.email   platform@veridex.io

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package utils

//run redis (stack image, the keyword indexes need the search module)
//docker run -p 6379:6379 -d redis/redis-stack-server

//docker run
//docker run -p 6333:6333 -p 6334:6334 -v vectorDBData:/qdrant/storage qdrant/qdrant

//swagger init
//swag init -g cmd/api/main.go --parseDependency --parseInternal --dir ./ --output ./cmd/api/docs
