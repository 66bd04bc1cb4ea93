package integration_tests

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yaron8/microlink/gateway/acquirer"
	gatewayconfig "github.com/yaron8/microlink/gateway/config"
	"github.com/yaron8/microlink/gateway/service"
	simconfig "github.com/yaron8/microlink/linksim/config"
	simservice "github.com/yaron8/microlink/linksim/service"
	"github.com/yaron8/microlink/linksim/simulator"
	"github.com/yaron8/microlink/logi"
)

const (
	maxRetries = 30
	retryDelay = 100 * time.Millisecond
)

// IntegrationTestSuite runs a real link simulator and a gateway in http mode
type IntegrationTestSuite struct {
	suite.Suite
	simulatorServer *httptest.Server
	gatewayServer   *httptest.Server
}

// SetupSuite runs once before all tests in the suite
func (s *IntegrationTestSuite) SetupSuite() {
	logger := logi.Discard()

	sim := simulator.NewSimulator(0, simulator.DefaultParams())
	s.simulatorServer = httptest.NewServer(
		simservice.NewAPIServer(&simconfig.Config{Port: 8082}, sim, logger).Handler())
	s.waitForService(s.simulatorServer.URL + "/health")

	s.gatewayServer = s.startGateway(s.simulatorServer.URL)
	s.waitForService(s.gatewayServer.URL + "/health")
}

// TearDownSuite runs once after all tests in the suite
func (s *IntegrationTestSuite) TearDownSuite() {
	if s.gatewayServer != nil {
		s.gatewayServer.Close()
	}
	if s.simulatorServer != nil {
		s.simulatorServer.Close()
	}
}

// startGateway serves a gateway wired to the simulator at simulatorURL
func (s *IntegrationTestSuite) startGateway(simulatorURL string) *httptest.Server {
	cfg := gatewayconfig.NewConfig()
	cfg.Simulator.Mode = gatewayconfig.ModeHTTP
	cfg.Simulator.URL = simulatorURL
	cfg.Simulator.TimeoutMs = 1000
	s.Require().NoError(cfg.Validate())

	source, err := acquirer.NewSource(cfg.Simulator)
	s.Require().NoError(err)

	logger := logi.Discard()
	api := service.NewAPIServer(cfg, acquirer.NewAcquirer(source, cfg.Simulator.Timeout(), logger), nil, logger)

	return httptest.NewServer(api.Handler())
}

// waitForService waits for a service to become available
func (s *IntegrationTestSuite) waitForService(url string) {
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	for i := 0; i < maxRetries; i++ {
		resp, err := client.Get(url)
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return
		}
		if resp != nil {
			resp.Body.Close()
		}

		s.T().Logf("Waiting for service at %s (attempt %d/%d)...", url, i+1, maxRetries)
		time.Sleep(retryDelay)
	}

	s.Require().Fail(fmt.Sprintf("Service at %s did not become ready after %d attempts", url, maxRetries))
}
