// @title           FinalGuardian Quiz API
// @version         1.0
// @description     Upload study notes, generate quizzes from them, grade answers and chat with a notes-grounded tutor.
// @termsOfService  http://swagger.io/terms/

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8000
// @BasePath  /
// @schemes   http https
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/akolanti/FinalGuardian/internal/config"
	"github.com/akolanti/FinalGuardian/pkg/logger_i"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "quizd",
		Short:        "Quiz generator and tutor over your study notes",
		Long:         "quizd indexes uploaded notes, writes quizzes from them, grades answers and answers questions about them.",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(mcpCmd())
	rootCmd.AddCommand(ingestCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads settings and then the logger. Every command starts here.
func setup(logOutput io.Writer) (*config.Settings, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger_i.InitWithWriter(logOutput, settings.IsProd)
	return settings, nil
}
