// meta/meta.go
package meta

import "time"

// ROUNDS defines the number of rounds each table plays per agent.
const ROUNDS = 2_000

// TABLES defines the number of tables played concurrently.
const TABLES = 8

// BUDGET defines the search time per decision.
const BUDGET = 50 * time.Millisecond

// ADDR defines where the decision server listens.
const ADDR = ":8080"

const RESULTS_DIR = "results"
