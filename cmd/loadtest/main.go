// Command loadtest drives concurrent admin credits and debits against a running
// coin ledger and checks afterwards that every wallet balance still equals the
// signed sum of its entries.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/api/dto"
)

// TestResult contains metrics for a single request
type TestResult struct {
	Success      bool
	ResponseTime time.Duration
	StatusCode   int
	Error        error
}

// TestStats contains aggregated test statistics
type TestStats struct {
	TotalRequests      int
	SuccessfulRequests int
	FailedRequests     int
	TotalTime          time.Duration
	MinResponseTime    time.Duration
	MaxResponseTime    time.Duration
	TotalResponseTime  time.Duration
	ResponseTimes      []time.Duration
	ErrorCounts        map[string]int
	UserStats          map[string]int
	ScenarioStats      map[string]int
	Lock               sync.Mutex
}

// Scenario is one kind of admin adjustment
type Scenario struct {
	Name   string
	Action string // credit|debit
	Amount int64
}

type client struct {
	http    *http.Client
	baseURL string
	secret  []byte
	issuer  string
}

func (c *client) token(subject string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    c.issuer,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

func (c *client) do(method, path, subject string, body any, headers map[string]string) (*http.Response, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, payload)
	if err != nil {
		return nil, err
	}
	token, err := c.token(subject)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.http.Do(req)
}

func main() {
	concurrency := flag.Int("c", 5, "Number of concurrent goroutines")
	totalRequests := flag.Int("n", 100, "Total number of requests to make")
	userIDsStr := flag.String("u", "load-1,load-2,load-3", "Comma-separated list of user IDs to distribute load across")
	baseURL := flag.String("url", "http://localhost:8080/api/v1", "Base URL for the API")
	adminID := flag.String("admin", "dev-admin", "User ID of a configured admin account")
	secret := flag.String("secret", os.Getenv("CL_AUTH_JWTSECRET"), "HS256 secret shared with the server")
	issuer := flag.String("issuer", os.Getenv("CL_AUTH_ISSUER"), "Token issuer expected by the server")
	delayMs := flag.Int("delay", 10, "Delay between requests in milliseconds")
	flag.Parse()

	if *secret == "" {
		fmt.Println("a JWT secret is required (-secret or CL_AUTH_JWTSECRET)")
		os.Exit(2)
	}

	var userIDs []string
	for _, id := range strings.Split(*userIDsStr, ",") {
		if id = strings.TrimSpace(id); id != "" {
			userIDs = append(userIDs, id)
		}
	}
	if len(userIDs) == 0 {
		userIDs = []string{"load-1"}
	}

	c := &client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(*baseURL, "/"),
		secret:  []byte(*secret),
		issuer:  *issuer,
	}

	for _, id := range userIDs {
		if err := ensureUser(c, id); err != nil {
			fmt.Printf("Failed to create user %s: %v\n", id, err)
			os.Exit(1)
		}
	}

	scenarios := []Scenario{
		{"Credit Small", "credit", 5},
		{"Credit Medium", "credit", 20},
		{"Credit Large", "credit", 50},
		{"Debit Small", "debit", 5},
		{"Debit Medium", "debit", 15},
		{"Debit Large", "debit", 40},
	}

	fmt.Printf("Load testing ledger across %d users: %v\n", len(userIDs), userIDs)
	fmt.Printf("Concurrency: %d goroutines\n", *concurrency)
	fmt.Printf("Total requests: %d\n", *totalRequests)
	fmt.Printf("Delay between requests: %d ms\n", *delayMs)

	stats := &TestStats{
		TotalRequests:   *totalRequests,
		MinResponseTime: time.Hour,
		ErrorCounts:     make(map[string]int),
		ResponseTimes:   make([]time.Duration, 0, *totalRequests),
		UserStats:       make(map[string]int),
		ScenarioStats:   make(map[string]int),
	}

	results := make(chan TestResult, *totalRequests)
	jobs := make(chan int, *totalRequests)

	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(c, *adminID, *delayMs, userIDs, scenarios, jobs, results, stats)
		}()
	}

	for i := 0; i < *totalRequests; i++ {
		jobs <- i
	}
	close(jobs)

	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for result := range results {
			stats.record(result)
		}
	}()

	startTime := time.Now()
	ticker := time.NewTicker(time.Second)
	go func() {
		for range ticker.C {
			stats.Lock.Lock()
			completed := stats.SuccessfulRequests + stats.FailedRequests
			stats.Lock.Unlock()
			if completed > 0 {
				fmt.Printf("Progress: %d/%d requests completed (%.1f%%)\n",
					completed, stats.TotalRequests, float64(completed)/float64(stats.TotalRequests)*100)
			}
		}
	}()

	wg.Wait()
	close(results)
	<-collected
	ticker.Stop()
	stats.TotalTime = time.Since(startTime)

	printResults(stats)

	if !verifyWallets(c, userIDs) {
		os.Exit(1)
	}
}

func ensureUser(c *client, id string) error {
	resp, err := c.do(http.MethodPost, "/users", id, dto.CreateUserRequest{Email: id + "@loadtest.local"}, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusConflict {
		return fmt.Errorf("HTTP status code %d", resp.StatusCode)
	}
	return nil
}

func worker(c *client, adminID string, delayMs int, userIDs []string,
	scenarios []Scenario, jobs <-chan int, results chan<- TestResult, stats *TestStats) {

	for range jobs {
		if delayMs > 0 {
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}

		userID := userIDs[rand.Intn(len(userIDs))]
		scenario := scenarios[rand.Intn(len(scenarios))]

		stats.Lock.Lock()
		stats.UserStats[userID]++
		stats.ScenarioStats[scenario.Name]++
		stats.Lock.Unlock()

		path := fmt.Sprintf("/admin/users/%s/%s", userID, scenario.Action)
		body := dto.AdjustmentRequest{Amount: scenario.Amount, Description: "Load test " + scenario.Name}
		headers := map[string]string{"Idempotency-Key": uuid.NewString()}

		startTime := time.Now()
		resp, err := c.do(http.MethodPost, path, adminID, body, headers)
		result := TestResult{ResponseTime: time.Since(startTime)}

		if err != nil {
			result.Error = err
		} else {
			result.StatusCode = resp.StatusCode
			// an insufficient-balance debit is a correct answer, not a failure
			result.Success = resp.StatusCode < 300 || resp.StatusCode == http.StatusUnprocessableEntity
			if !result.Success {
				result.Error = fmt.Errorf("HTTP status code %d", resp.StatusCode)
			}
			_ = resp.Body.Close()
		}
		results <- result
	}
}

func (s *TestStats) record(result TestResult) {
	s.Lock.Lock()
	defer s.Lock.Unlock()

	if result.Success {
		s.SuccessfulRequests++
	} else {
		s.FailedRequests++
		errMsg := "unknown"
		if result.Error != nil {
			errMsg = result.Error.Error()
		}
		s.ErrorCounts[errMsg]++
	}

	s.ResponseTimes = append(s.ResponseTimes, result.ResponseTime)
	s.TotalResponseTime += result.ResponseTime
	if result.ResponseTime < s.MinResponseTime {
		s.MinResponseTime = result.ResponseTime
	}
	if result.ResponseTime > s.MaxResponseTime {
		s.MaxResponseTime = result.ResponseTime
	}
}

// verifyWallets reports whether every balance matches its ledger
func verifyWallets(c *client, userIDs []string) bool {
	fmt.Println("\n----------------- LEDGER CHECK -----------------")
	ok := true
	for _, id := range userIDs {
		wallet, err := fetchWallet(c, id)
		if err != nil {
			fmt.Printf("%-15s: %v\n", id, err)
			ok = false
			continue
		}

		sum := signedSum(wallet.Transactions)
		status := "ok"
		if sum != wallet.Coins || wallet.Coins < 0 {
			status = "MISMATCH"
			ok = false
		}
		fmt.Printf("%-15s: balance %d, ledger sum %d, %d entries [%s]\n",
			id, wallet.Coins, sum, len(wallet.Transactions), status)
	}
	return ok
}

func fetchWallet(c *client, id string) (*dto.WalletResponse, error) {
	resp, err := c.do(http.MethodGet, "/me/wallet", id, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP status code %d", resp.StatusCode)
	}

	var wallet dto.WalletResponse
	if err := json.NewDecoder(resp.Body).Decode(&wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}

func signedSum(entries []dto.TransactionResponse) int64 {
	var sum int64
	for _, e := range entries {
		if e.Type == "debit" {
			sum -= e.Amount
		} else {
			sum += e.Amount
		}
	}
	return sum
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[len(sorted)*p/100]
}

func printResults(stats *TestStats) {
	tps := float64(stats.SuccessfulRequests) / stats.TotalTime.Seconds()

	var avgResponseTime time.Duration
	if len(stats.ResponseTimes) > 0 {
		avgResponseTime = stats.TotalResponseTime / time.Duration(len(stats.ResponseTimes))
	}

	sorted := append([]time.Duration(nil), stats.ResponseTimes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Requests:      %d\n", stats.TotalRequests)
	fmt.Printf("Successful Requests: %d (%.1f%%)\n", stats.SuccessfulRequests,
		float64(stats.SuccessfulRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("Failed Requests:     %d (%.1f%%)\n", stats.FailedRequests,
		float64(stats.FailedRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())
	fmt.Printf("TPS:                 %.2f\n", tps)

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("Average Response:    %v\n", avgResponseTime)
	fmt.Printf("Minimum Response:    %v\n", stats.MinResponseTime)
	fmt.Printf("Maximum Response:    %v\n", stats.MaxResponseTime)
	fmt.Printf("P50 Response:        %v\n", percentile(sorted, 50))
	fmt.Printf("P90 Response:        %v\n", percentile(sorted, 90))
	fmt.Printf("P99 Response:        %v\n", percentile(sorted, 99))

	fmt.Println("\n----------------- SCENARIO DISTRIBUTION -----------------")
	for scenario, count := range stats.ScenarioStats {
		fmt.Printf("%-15s: %d requests\n", scenario, count)
	}

	fmt.Println("\n----------------- USER DISTRIBUTION -----------------")
	for userID, count := range stats.UserStats {
		fmt.Printf("%-15s: %d requests\n", userID, count)
	}

	if stats.FailedRequests > 0 {
		fmt.Println("\n----------------- ERROR DISTRIBUTION -----------------")
		for errMsg, count := range stats.ErrorCounts {
			fmt.Printf("%-40s: %d\n", errMsg, count)
		}
	}
}
