// Wisp - AR companion agent demo
//
// Runs the detection-to-scene pipeline against a webcam, places scene
// objects for detections, and serves a dashboard with manual agent
// controls. Without a model file it runs on a mock provider so the
// loop can be exercised anywhere.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/strayware/go-wisp/internal/config"
	"github.com/strayware/go-wisp/internal/log"
	"github.com/strayware/go-wisp/pkg/agent"
	"github.com/strayware/go-wisp/pkg/detect"
	"github.com/strayware/go-wisp/pkg/frameloop"
	"github.com/strayware/go-wisp/pkg/infer"
	"github.com/strayware/go-wisp/pkg/scene"
	"github.com/strayware/go-wisp/pkg/web"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	camera := flag.Int("camera", 0, "Webcam device ID")
	mock := flag.Bool("mock", false, "Use a mock model instead of ONNX")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("❌ Config error: %v\n", err)
		os.Exit(1)
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	log.Init(cfg.LogLevel)

	fmt.Println("✨ Wisp AR Companion")
	fmt.Println("====================")

	provider, err := newProvider(cfg, *mock)
	if err != nil {
		fmt.Printf("❌ Model error: %v\n", err)
		os.Exit(1)
	}
	defer provider.Close()

	decoder, err := detect.NewDecoder(detect.Config{
		ConfidenceThresh: cfg.Detect.ConfidenceThresh,
		IoUThresh:        cfg.Detect.IoUThresh,
		MaxDetections:    cfg.Detect.MaxDetections,
		Labels:           cfg.Detect.Labels,
	})
	if err != nil {
		fmt.Printf("❌ Decoder error: %v\n", err)
		os.Exit(1)
	}

	// Without an AR session, hits come from a synthetic ground plane and
	// markers are tracked in memory only.
	mapper := scene.NewMapper(&scene.PlanarHitTester{
		FrameWidth:  float64(cfg.Model.InputWidth),
		FrameHeight: float64(cfg.Model.InputHeight),
		Extent:      2,
	})
	registry := scene.NewRegistry(&scene.MockRenderer{}, cfg.Scene.MarginSize)

	wisp, err := agent.New(&logController{}, newLogAnimator(), agent.Config{
		MovementSpeed:  cfg.Agent.MovementSpeed,
		RotationSpeed:  cfg.Agent.RotationSpeed,
		SmoothMovement: cfg.Agent.SmoothMovement,
		SafeDistance:   cfg.Agent.SafeDistance,
		TickInterval:   16 * time.Millisecond,
		Clips:          agent.DefaultClips(),
	})
	if err != nil {
		fmt.Printf("❌ Agent error: %v\n", err)
		os.Exit(1)
	}
	if err := wisp.SpawnAt(scene.NewMockAnchor(r3.Vec{})); err != nil {
		fmt.Printf("❌ Spawn error: %v\n", err)
		os.Exit(1)
	}

	pipeline := frameloop.New(provider, decoder, mapper, registry)

	var server *web.Server
	if cfg.Web.Enabled {
		server = web.NewServer(cfg.Web.Port, pipeline, registry, wisp)
		server.StartAsync()
		defer server.Shutdown()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	fmt.Println("🔄 Frame loop running (Ctrl+C to stop)")
	if err := runLoop(*camera, *mock, cfg, pipeline, server, sigChan); err != nil {
		fmt.Printf("❌ Runtime error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n👋 Goodbye!")
	stats := pipeline.Stats()
	fmt.Printf("📊 Frames: %d processed, %d dropped, %d failed, %d objects placed\n",
		stats.Processed, stats.Dropped, stats.Failed, stats.Placed)
}

func newProvider(cfg config.Config, mock bool) (infer.Provider, error) {
	if mock {
		fmt.Println("🧪 Mock model (one synthetic detection per frame)")
		return &infer.MockProvider{Prediction: syntheticPrediction()}, nil
	}
	fmt.Printf("🧠 Model: %s\n", cfg.Model.Path)
	return infer.NewONNX(infer.Config{
		ModelPath:   cfg.Model.Path,
		InputWidth:  cfg.Model.InputWidth,
		InputHeight: cfg.Model.InputHeight,
	})
}

// runLoop pulls webcam frames through the pipeline until a signal
// arrives. In mock mode it synthesizes frames on a timer instead.
func runLoop(camera int, mock bool, cfg config.Config, p *frameloop.Pipeline, server *web.Server, sigChan chan os.Signal) error {
	if mock {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-sigChan:
				return nil
			case <-ticker.C:
				p.ProcessFrame(frameloop.Frame{
					Width:  cfg.Model.InputWidth,
					Height: cfg.Model.InputHeight,
				})
				if server != nil {
					server.PublishState()
				}
			}
		}
	}

	webcam, err := gocv.OpenVideoCapture(camera)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", camera, err)
	}
	defer webcam.Close()
	webcam.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Model.InputWidth))
	webcam.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Model.InputHeight))

	img := gocv.NewMat()
	defer img.Close()

	for {
		select {
		case <-sigChan:
			return nil
		default:
		}

		if ok := webcam.Read(&img); !ok || img.Empty() {
			time.Sleep(50 * time.Millisecond)
			continue
		}

		buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
		if err != nil {
			log.Warn("frame encode failed", "err", err)
			continue
		}
		encoded := make([]byte, len(buf.GetBytes()))
		copy(encoded, buf.GetBytes())
		buf.Close()

		result := p.ProcessFrame(frameloop.Frame{
			Image:  encoded,
			Width:  img.Cols(),
			Height: img.Rows(),
		})
		if result.Placed > 0 {
			fmt.Printf("📍 Placed %d new object(s)\n", result.Placed)
		}

		if server != nil {
			server.PublishState()
			server.SendCameraFrame(encoded)
		}
	}
}

// syntheticPrediction is a single centered box the mock provider emits.
func syntheticPrediction() *detect.Prediction {
	pred, err := detect.NewPrediction([]float32{0.5, 0.5, 0.2, 0.3, 0.9}, 1)
	if err != nil {
		panic(err)
	}
	return pred
}
