package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"bridge-kita.backend/internal/domain/entities"
	domainerrors "bridge-kita.backend/internal/domain/errors"
)

// DescriptorClient fetches contract FileDescriptorSets from account-chain
// nodes. The node returns the set as a base64 JSON string.
type DescriptorClient struct {
	nodeURLs map[entities.ChainID]string
	http     *http.Client
}

func NewDescriptorClient(nodeURLs map[entities.ChainID]string) *DescriptorClient {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 3 * time.Second
	rc.Logger = nil
	return &DescriptorClient{
		nodeURLs: nodeURLs,
		http:     rc.StandardClient(),
	}
}

// FetchDescriptorSet retrieves the raw descriptor-set bytes for a contract.
func (c *DescriptorClient) FetchDescriptorSet(ctx context.Context, chainID entities.ChainID, contractAddress string) ([]byte, error) {
	base, ok := c.nodeURLs[chainID]
	if !ok {
		return nil, domainerrors.BadRequest(fmt.Sprintf("no node endpoint configured for chain %s", chainID))
	}

	endpoint := strings.TrimRight(base, "/") +
		"/api/blockChain/contractFileDescriptorSet?address=" + url.QueryEscape(contractAddress)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domainerrors.DescriptorUnresolvable(string(chainID), contractAddress, "", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, domainerrors.DescriptorUnresolvable(string(chainID), contractAddress, "",
			fmt.Errorf("node returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data))))
	}

	var encoded string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return nil, domainerrors.DescriptorUnresolvable(string(chainID), contractAddress, "", err)
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, domainerrors.DescriptorUnresolvable(string(chainID), contractAddress, "", err)
	}
	return raw, nil
}
