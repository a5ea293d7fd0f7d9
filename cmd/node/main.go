//go:build tinygo

// node is the hardware firmware image: MCP3008 sampling over SPI, the
// acquisition pipeline and datastore, and the shell on UART0.
package main

import (
	"context"
	"machine"
	"time"

	"sensornode-go/drivers/adc"
	"sensornode-go/services/adcacq"
	"sensornode-go/services/config"
	"sensornode-go/services/datastore"
	"sensornode-go/services/heartbeat"
	"sensornode-go/services/shell"
	"sensornode-go/types"
	"sensornode-go/x/mathx"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	cfg := config.Default()
	cfg.Apply()
	ctx := context.Background()

	store, err := datastore.New(cfg.DatastoreConfig())
	if err != nil {
		println("datastore init failed:", err.Error())
		return
	}
	store.Start(ctx)

	spi := machine.SPI0
	if err := spi.Configure(machine.SPIConfig{Frequency: 1350000}); err != nil {
		println("spi init failed:", err.Error())
		return
	}
	drv, err := adc.NewMCP3008(adc.MCP3008Config{
		Bus:       spi,
		CS:        machine.GP17,
		ChanCount: cfg.ADC.ChanCount,
		VrefChan:  7,
	})
	if err != nil {
		println("adc init failed:", err.Error())
		return
	}

	engine, err := adcacq.New(drv, drv, cfg.ADCConfig())
	if err != nil {
		println("acquisition init failed:", err.Error())
		return
	}
	if err := engine.Start(ctx); err != nil {
		println("acquisition start failed:", err.Error())
		return
	}

	n := mathx.Min(cfg.ADC.ChanCount, datastore.Count(types.Float))
	if _, err := engine.Subscribe(func(volts []float32) {
		store.WriteFloat(datastore.FloatFirst, volts[:n], nil)
	}); err != nil {
		println("volts subscribe failed:", err.Error())
		return
	}

	heartbeat.New(store, heartbeat.Config{ID: datastore.UintFirst}).Start(ctx)

	port, err := shell.OpenUART(ctx, shell.UARTConfig{ID: "uart0", Baud: 115200})
	if err != nil {
		println("uart init failed:", err.Error())
		return
	}
	if err := shell.New(engine, store).Run(ctx, port); err != nil {
		println("shell exited:", err.Error())
	}
}
