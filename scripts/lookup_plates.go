package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Vehicle результат нормализации из /api/vehicles/batch
type Vehicle struct {
	Success   bool     `json:"success"`
	Plaque    string   `json:"plaque"`
	Marque    string   `json:"marque"`
	Modele    string   `json:"modele"`
	Energie   string   `json:"energie"`
	CO2PerKm  *float64 `json:"co2PerKm"`
	Puissance *int     `json:"puissance"`
	Cylindree *int     `json:"cylindree"`
	Error     string   `json:"error"`
}

type batchRequest struct {
	Plaques []string `json:"plaques"`
}

const (
	defaultGatewayURL = "http://localhost:10000"
	maxBatchSize      = 50
)

var (
	gatewayURL = defaultGatewayURL
	authToken  = ""
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run lookup_plates.go <path-to-csv> [gateway-url]")
		fmt.Println("Example: go run lookup_plates.go flotte.csv http://localhost:10000")
		os.Exit(1)
	}

	csvPath := os.Args[1]
	if len(os.Args) > 2 {
		gatewayURL = strings.TrimRight(os.Args[2], "/")
	}
	authToken = os.Getenv("GATEWAY_TOKEN")

	fmt.Println("Step 1: Reading CSV file...")
	plates, err := readPlates(csvPath)
	if err != nil {
		fmt.Printf("Error reading CSV: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Read %d plates from CSV\n", len(plates))
	if len(plates) == 0 {
		fmt.Println("Nothing to look up.")
		return
	}

	fmt.Printf("\nStep 2: Looking up plates via %s...\n", gatewayURL)
	var vehicles []Vehicle
	for start := 0; start < len(plates); start += maxBatchSize {
		end := min(start+maxBatchSize, len(plates))
		batch, err := lookupBatch(plates[start:end])
		if err != nil {
			fmt.Printf("Error looking up plates %d-%d: %v\n", start+1, end, err)
			os.Exit(1)
		}
		vehicles = append(vehicles, batch...)
		fmt.Printf("✓ %d/%d\n", len(vehicles), len(plates))
	}

	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("VEHICLES")
	fmt.Println(strings.Repeat("=", 80))

	found, notFound, failed := 0, 0, 0
	for _, v := range vehicles {
		switch {
		case v.Success:
			found++
		case v.Error != "":
			failed++
		default:
			notFound++
		}
		fmt.Printf("%-12s | %-12s %-20s | %-10s | CO2 %6s | %4s CV | %6s cm3\n",
			v.Plaque, v.Marque, v.Modele, v.Energie,
			formatFloat(v.CO2PerKm), formatInt(v.Puissance), formatInt(v.Cylindree))
		if v.Error != "" {
			fmt.Printf("  ⚠ %s\n", v.Error)
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("SUMMARY")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("  Total plates:  %d\n", len(vehicles))
	fmt.Printf("  Found:         %d\n", found)
	fmt.Printf("  Not found:     %d\n", notFound)
	fmt.Printf("  Failed:        %d\n", failed)
	fmt.Println(strings.Repeat("=", 80))

	fmt.Print("\nDo you want to export the results to xlsx? (yes/no): ")
	var response string
	fmt.Scanln(&response)
	if strings.ToLower(strings.TrimSpace(response)) != "yes" {
		return
	}

	fmt.Println("\nStep 3: Exporting workbook...")
	path := fmt.Sprintf("vehicules-%s.xlsx", time.Now().Format("20060102-150405"))
	if err := exportBatch(plates, path); err != nil {
		fmt.Printf("Error exporting: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Saved %s\n", path)
}

// readPlates читает первую колонку CSV, заголовок пропускается
func readPlates(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var plates []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			continue
		}
		plates = append(plates, strings.TrimSpace(record[0]))
	}

	return plates, nil
}

func lookupBatch(plates []string) ([]Vehicle, error) {
	resp, err := post("/api/vehicles/batch", plates)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Vehicles []Vehicle `json:"vehicles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Vehicles, nil
}

func exportBatch(plates []string, path string) error {
	resp, err := post("/api/vehicles/batch/export", plates)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func post(path string, plates []string) (*http.Response, error) {
	payload, err := json.Marshal(batchRequest{Plaques: plates})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequest("POST", gatewayURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

func formatFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f", *v)
}

func formatInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
