package main

import (
	"strings"
	"time"

	"gargoton.petite-maison-orange.fr/eric/pmoparam/pmoclock"
	"gargoton.petite-maison-orange.fr/eric/pmoparam/pmoparam"
	"github.com/beevik/etree"
	log "github.com/sirupsen/logrus"
)

const parameterSet = `
parameters:
  - name: gain
    default: 0.25
    min: 0
    max: 1
  - name: pan
    default: 0
    min: -1
    max: 1
`

func main() {
	log.SetLevel(log.DebugLevel)

	defs, err := pmoparam.LoadDefinitions(strings.NewReader(parameterSet))
	if err != nil {
		log.Fatalf("❌ loading parameter set: %v", err)
	}

	for _, def := range defs {
		doc := etree.NewDocument()
		doc.SetRoot(def.ToXMLElement())
		doc.Indent(2)
		xml, _ := doc.WriteToString()
		log.Infof("📄 descriptor for %s:\n%s", def.Name(), xml)
	}

	gain := defs[0]
	clock := pmoclock.NewWallClock()
	param, err := gain.Bind(clock)
	if err != nil {
		log.Fatalf("❌ binding %s: %v", gain.Name(), err)
	}

	param.Subscribe(func(v float64) {
		log.Infof("🔔 %s changed to %.4f at t=%.3fs", gain.Name(), v, clock.CurrentTime())
	})

	param.Start()
	defer param.Stop()

	now := clock.CurrentTime()
	if err := param.LinearRampToValueAtTime(1, now+1); err != nil {
		log.Fatalf("❌ scheduling linear ramp: %v", err)
	}
	if err := param.ExponentialRampToValueAtTime(0.1, now+2); err != nil {
		log.Fatalf("❌ scheduling exponential ramp: %v", err)
	}

	// out-of-range schedule, clamped to the max bound
	if err := param.SetValueAtTime(4, now+2.5); err != nil {
		log.Fatalf("❌ scheduling step: %v", err)
	}

	time.Sleep(3 * time.Second)
	log.Infof("✅ final %s value: %.4f", gain.Name(), param.Value())
}
