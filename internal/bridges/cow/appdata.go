package cow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/ipfs/go-cid"
)

// subgraphEndpoints mirrors cow_api.py's SUBGRAPH_ENDPOINT_BY_CHAIN_ID: one
// CoW subgraph per chain, queried for an order's appData before falling
// back to the REST orders API.
var subgraphEndpoints = map[string]string{
	"ethereum": "https://api.thegraph.com/subgraphs/name/cowprotocol/cow",
	"arbitrum": "https://api.thegraph.com/subgraphs/name/cowprotocol/cow-arbitrum",
	"base":     "https://api.thegraph.com/subgraphs/name/cowprotocol/cow-base",
	"optimism": "https://api.thegraph.com/subgraphs/name/cowprotocol/cow-optimism",
	"polygon":  "https://api.thegraph.com/subgraphs/name/cowprotocol/cow-polygon",
}

var ipfsPathRe = regexp.MustCompile(`/ipfs/([A-Za-z0-9]+)`)

// AppDataClient resolves an order's appData (and the IPFS CID it points at,
// if any) via the CoW subgraph, falling back to the public orders REST API
// (cow_api.py's SubgraphApi.run_query / fetch_order_data_from_api). Network
// failures are non-fatal: callers treat a zero-value result as "unknown"
// and keep going, matching the source's log-and-continue behavior.
type AppDataClient struct {
	httpClient *http.Client
}

func NewAppDataClient(httpClient *http.Client) *AppDataClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &AppDataClient{httpClient: httpClient}
}

// AppData is what was resolvable for one order.
type AppData struct {
	AppData    string
	AppDataCid string
}

// Resolve looks up appData for an order on blockchain, trying the subgraph
// first and the REST API second.
func (c *AppDataClient) Resolve(ctx context.Context, blockchain, orderUID string) AppData {
	if appData, ok := c.fromSubgraph(ctx, blockchain, orderUID); ok {
		return AppData{AppData: appData, AppDataCid: ExtractCID(appData)}
	}
	if appData, ok := c.fromRESTAPI(ctx, orderUID); ok {
		return AppData{AppData: appData, AppDataCid: ExtractCID(appData)}
	}
	return AppData{}
}

func (c *AppDataClient) fromSubgraph(ctx context.Context, blockchain, orderUID string) (string, bool) {
	endpoint, ok := subgraphEndpoints[blockchain]
	if !ok {
		return "", false
	}
	body, err := json.Marshal(map[string]any{
		"query":     `query ($id: ID!) { order(id: $id) { id appData } }`,
		"variables": map[string]string{"id": strings.ToLower(orderUID)},
	})
	if err != nil {
		return "", false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(body)))
	if err != nil {
		return "", false
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", false
	}
	var out struct {
		Data struct {
			Order *struct {
				AppData string `json:"appData"`
			} `json:"order"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", false
	}
	if out.Data.Order == nil || out.Data.Order.AppData == "" {
		return "", false
	}
	return out.Data.Order.AppData, true
}

func (c *AppDataClient) fromRESTAPI(ctx context.Context, orderUID string) (string, bool) {
	url := fmt.Sprintf("https://api.cow.fi/mainnet/api/v1/orders/%s", orderUID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", false
	}
	var out struct {
		AppData string `json:"appData"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", false
	}
	return out.AppData, out.AppData != ""
}

// ExtractCID pulls a probable IPFS CID out of an appData value: an
// "ipfs://" URL, a "/ipfs/<cid>" gateway path, or a bare CID string,
// grounded on cow_api.py's extract_cid. Validated with go-cid so a
// plausible-looking but malformed string isn't reported as a CID.
func ExtractCID(appData string) string {
	v := strings.TrimSpace(appData)
	if v == "" {
		return ""
	}
	lower := strings.ToLower(v)
	if strings.HasPrefix(lower, "ipfs://") {
		v = v[len("ipfs://"):]
		if strings.HasPrefix(strings.ToLower(v), "ipfs/") {
			v = v[len("ipfs/"):]
		}
	}
	if m := ipfsPathRe.FindStringSubmatch(v); m != nil {
		v = m[1]
	}
	if _, err := cid.Decode(v); err != nil {
		return ""
	}
	return v
}
