package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/smx/phishsim/internal/adapters/modelstore"
	"github.com/smx/phishsim/internal/core"
	"github.com/smx/phishsim/internal/logging"
	"github.com/smx/phishsim/internal/risk"
)

var (
	// Input flags
	inputFile = flag.String("file", "", "Input JSON corpus file (use stdin if not specified)")
	verbose   = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog   = flag.Bool("json-log", false, "Output logs in JSON format")

	// Model flags
	train          = flag.Bool("train", false, "Train the risk model on the corpus before predicting")
	userID         = flag.Int64("user", 0, "Predict risk for a single user ID (0 predicts for all)")
	classifierPath = flag.String("classifier", "models/risk_classifier.json", "Path to the classifier artifact")
	scalerPath     = flag.String("scaler", "models/risk_scaler.json", "Path to the scaler artifact")
)

// corpusUser is one user record of the input corpus. Department is the
// department name, not an ID.
type corpusUser struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Department string `json:"department"`
}

// corpus is the JSON input format: users plus their email interaction logs
type corpus struct {
	Users     []corpusUser    `json:"users"`
	EmailLogs []core.EmailLog `json:"email_logs"`
}

func main() {
	flag.Parse()

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Read corpus from file or stdin
	var corpusReader io.Reader
	if *inputFile != "" {
		file, err := os.Open(*inputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", *inputFile))
		}
		defer file.Close()
		corpusReader = file
		logger.Info("Reading corpus from file", zap.String("file", *inputFile))
	} else {
		corpusReader = os.Stdin
		logger.Info("Reading corpus from stdin")
	}

	var data corpus
	if err := json.NewDecoder(corpusReader).Decode(&data); err != nil {
		logger.Fatal("Failed to parse corpus", zap.Error(err))
	}

	fmt.Printf("\n=== Corpus Summary ===\n")
	fmt.Printf("Users: %d\n", len(data.Users))
	fmt.Printf("Email logs: %d\n", len(data.EmailLogs))

	store := modelstore.NewFileStore(*classifierPath, *scalerPath, logger)
	predictor := risk.NewPredictor(store, logger)

	if *train {
		histories := buildHistories(data)
		fmt.Printf("\n=== Training ===\n")
		fmt.Printf("Histories with email activity: %d\n", len(histories))
		startTime := time.Now()
		predictor.Train(histories)
		fmt.Printf("Trained: %t\n", predictor.IsTrained())
		fmt.Printf("Training time: %v\n", time.Since(startTime))
	}

	fmt.Printf("\n=== Predictions ===\n")
	for _, user := range data.Users {
		if *userID != 0 && user.ID != *userID {
			continue
		}
		info := risk.UserInfo{ID: user.ID, Age: user.Age, Department: user.Department}
		prediction, err := predictor.Predict(info, data.EmailLogs)
		if err != nil {
			logger.Fatal("Prediction failed", zap.Error(err), zap.Int64("user_id", user.ID))
		}

		fmt.Printf("\nUser: %s (id=%d, department=%s)\n", user.Name, user.ID, user.Department)
		fmt.Printf("Risk level: %s\n", prediction.RiskLevel)
		fmt.Printf("Risk score: %.3f\n", prediction.RiskScore)
		fmt.Printf("Confidence: %.3f\n", prediction.Confidence)
		if prediction.Message != "" {
			fmt.Printf("Message: %s\n", prediction.Message)
		}
		for _, rec := range prediction.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
	}
}

// buildHistories groups email logs by user, skipping users with no activity
func buildHistories(data corpus) []risk.LabeledHistory {
	histories := make([]risk.LabeledHistory, 0, len(data.Users))
	for _, user := range data.Users {
		var logs []core.EmailLog
		for _, log := range data.EmailLogs {
			if log.UserID == user.ID {
				logs = append(logs, log)
			}
		}
		if len(logs) == 0 {
			continue
		}
		histories = append(histories, risk.LabeledHistory{
			User: risk.UserInfo{ID: user.ID, Age: user.Age, Department: user.Department},
			Logs: logs,
		})
	}
	return histories
}
