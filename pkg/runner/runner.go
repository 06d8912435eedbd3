package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/kvasir-sec/reflectix/pkg/logger"
	"github.com/kvasir-sec/reflectix/pkg/models"
	"github.com/kvasir-sec/reflectix/pkg/network"
	"github.com/kvasir-sec/reflectix/pkg/output"
	"github.com/kvasir-sec/reflectix/pkg/scanner"
	"github.com/kvasir-sec/reflectix/pkg/scanner/fingerprint"
	"github.com/kvasir-sec/reflectix/pkg/scanner/injection"
)

// Runner drives the scan: it feeds target URLs to a worker pool where
// every worker runs the configured attack modules against its target.
type Runner struct {
	options *Options
}

// NewRunner creates a new Runner instance
func NewRunner(options *Options) *Runner {
	return &Runner{options: options}
}

// Run executes the scan over the given targets. When targets is empty
// the URLs are read from stdin, one per line. The exit code is 0 on a
// clean scan and 1 when at least one vulnerability was recorded.
func (r *Runner) Run(targets []string) int {
	log := logger.NewLogger(r.options.VerboseLevel())
	if r.options.Silent {
		log = logger.NewLoggerTo(0, io.Discard)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Error("Received interrupt, shutting down...")
		cancel()
	}()

	client := network.NewClient(r.options.Timeout, r.options.Proxy, r.options.Concurrency, r.options.RateLimit)
	for _, h := range r.options.Headers {
		parts := strings.SplitN(h, ":", 2)
		if len(parts) == 2 {
			client.SetHeader(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
		}
	}

	persister := scanner.NewMemoryPersister()

	jobs := make(chan string)
	var wg sync.WaitGroup

	var (
		scannedURLs atomic.Int64
		netErrors   atomic.Int64
		targetByID  sync.Map // request ID -> target URL
	)

	for i := 0; i < r.options.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case target, ok := <-jobs:
					if !ok {
						return
					}
					if ctx.Err() != nil {
						return
					}
					scannedURLs.Add(1)
					netErrors.Add(r.scanTarget(ctx, target, client, persister, log, &targetByID))
				}
			}
		}()
	}

	if len(targets) > 0 {
		go func() {
			defer close(jobs)
			for _, t := range targets {
				select {
				case jobs <- t:
				case <-ctx.Done():
					return
				}
			}
		}()
	} else {
		stdin := bufio.NewScanner(os.Stdin)
		go func() {
			defer close(jobs)
			for stdin.Scan() {
				if ctx.Err() != nil {
					return
				}
				target := strings.TrimSpace(stdin.Text())
				if target == "" {
					continue
				}
				select {
				case jobs <- target:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	wg.Wait()

	for _, f := range persister.Findings() {
		if target, ok := targetByID.Load(f.RequestID); ok {
			f.URL = target.(string)
		}
		out := output.Format(f, r.options.OutputFormat)
		if out != "" {
			fmt.Println(out)
		}
	}

	vulns := len(persister.BySeverity(models.SeverityVulnerability))
	log.Section("Scan complete")
	log.Info("%d URLs processed, %d vulnerabilities, %d anomalies, %d network errors",
		scannedURLs.Load(), vulns,
		len(persister.BySeverity(models.SeverityAnomaly)), netErrors.Load())

	if vulns > 0 {
		return 1
	}
	return 0
}

// scanTarget runs every applicable module against one URL and returns
// the number of transport failures seen.
func (r *Runner) scanTarget(ctx context.Context, target string, client *network.Client, persister scanner.Persister, log *logger.Logger, targetByID *sync.Map) int64 {
	method := models.MethodGET
	if r.options.DoPost && r.options.Data != "" {
		method = models.MethodPOST
	}
	req, err := models.NewRequest(method, target, r.options.Data)
	if err != nil {
		log.Error("Skipping %s: %v", target, err)
		return 0
	}
	targetByID.Store(req.ID, target)

	modules := []scanner.Module{
		injection.NewModule(client, persister, log, injection.Options{
			AttackLevel: r.options.AttackLevel,
			DoPost:      r.options.DoPost,
		}),
	}
	if r.options.Fingerprint {
		modules = append(modules,
			fingerprint.NewWordPress(client, persister, log),
			fingerprint.NewSPIP(client, persister, log),
			fingerprint.NewCitrix(client, persister, log),
			fingerprint.NewForti(client, persister, log),
		)
	}

	var errCount int64
	for _, mod := range modules {
		if ctx.Err() != nil {
			break
		}
		if !mod.MustAttack(req) {
			log.VV("Module %s has nothing to do for %s", mod.Name(), target)
			continue
		}
		log.V("Running module %s against %s", mod.Name(), target)
		if err := mod.Attack(ctx, req); err != nil && err != context.Canceled {
			log.Error("Module %s failed on %s: %v", mod.Name(), target, err)
		}
		errCount += mod.NetworkErrors()
	}
	return errCount
}
