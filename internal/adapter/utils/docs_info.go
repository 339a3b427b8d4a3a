// @title           FinalGuardian Quiz API
// @version         1.0
// @description     Upload study notes, generate quizzes from them, grade answers and chat with a notes-grounded tutor.
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.url
// @contact.email   ank.github@gmail.com

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8000
// @BasePath  /
// @schemes   http https
package utils

//run redis (only for QUIZ_LEDGER_BACKEND=redis)
//docker run -p 6379:6379 -d redis

//run qdrant (only for QUIZ_INDEX_BACKEND=qdrant)
//docker run -p 6333:6333 -p 6334:6334 -v vectorDBData:/qdrant/storage qdrant/qdrant

//swagger init
//swag init -g cmd/api/main.go --parseDependency --parseInternal --dir ./ --output ./cmd/api/docs
