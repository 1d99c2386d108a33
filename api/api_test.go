package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	mcpapi "github.com/stackpile/graphzep/api/mcp"
	"github.com/stackpile/graphzep/pkg/graph"
	"github.com/stackpile/graphzep/pkg/logger"
	testutils "github.com/stackpile/graphzep/pkg/utils/test"
)

var _ = Describe("Server", func() {
	var (
		server *Server
		store  *testutils.MockStore
	)

	BeforeEach(func() {
		store = testutils.NewMockStore()

		service, err := graph.NewService(&graph.Config{
			Store:  store,
			Logger: logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())

		mcpServer, err := mcpapi.NewServer(mcpapi.Config{
			Service: service,
			Logger:  logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())

		server = NewServer(Config{ListenAddr: ":0"}, mcpServer, service, logger.Nop())
	})

	Describe("GET /ping", func() {
		It("returns pong", func() {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(Equal(`"pong"`))
		})
	})

	Describe("GET /status", func() {
		It("reports ok with the configured collections", func() {
			req := httptest.NewRequest(http.MethodGet, "/status", nil)
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var status map[string]any
			Expect(json.NewDecoder(resp.Body).Decode(&status)).To(Succeed())
			Expect(status["status"]).To(Equal("ok"))
			Expect(status["collections"]).To(ContainElements("nodes", "edges", "episodes"))
		})
	})

	Describe("POST /mcp", func() {
		It("routes to the MCP handler", func() {
			req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			// no MCP session or body: the handler rejects the request
			// rather than the router 404ing it
			Expect(resp.StatusCode).NotTo(Equal(http.StatusNotFound))
		})
	})
})
