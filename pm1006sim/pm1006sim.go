/*
PM1006 simulator

Writes frames to serial port. Connect with null modem or socat pair to program
running pm1006 monitor. Model can be changed while running thru http UI
*/

package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/fatih/color"
	"github.com/hjkoskel/listserialports"
	log "github.com/sirupsen/logrus"

	"github.com/hjkoskel/pm1006"
)

func main() {
	pSerialDevice := flag.String("s", "", "serial device file")
	pUiport := flag.Int("uiport", 8088, "Port for UI (GET /status, GET/POST /model)")
	pHttpsCrt := flag.String("crt", "", "crt file for https, empty = plain http")
	pHttpsKey := flag.String("key", "", "key file for https")
	pPeriod := flag.Int64("period", 1000, "milliseconds between frames")
	pPM25 := flag.Float64("pm25", 12, "PM2.5 offset")

	flag.Parse()
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if *pSerialDevice == "" {
		fmt.Printf("Please define serial device. (-h for help)\nList of serial ports\n")
		proped, errProbing := listserialports.Probe(false)
		if errProbing != nil {
			log.Fatalf("error probing serial ports %s", errProbing)
		}
		for _, ser := range proped {
			fmt.Print(ser.ToPrintoutFormat())
		}
		os.Exit(0)
	}

	serialLink, errLink := pm1006.CreateLinuxSerial(*pSerialDevice)
	if errLink != nil {
		log.Fatalf("serial link fail %s", errLink)
	}
	defer serialLink.Close()

	model := DefaultSensorModel()
	model.FramePeriod = *pPeriod
	model.PM25.Offset = *pPM25
	simsensor := InitSimSensor(model)

	go func() {
		for bytArr := range simsensor.Output {
			color.Set(color.FgCyan)
			fmt.Printf("to serial: % X\n", bytArr)
			color.Unset()

			n, errWrite := serialLink.Write(bytArr) //Should write all in one pass
			if errWrite != nil {
				log.Errorf("error writing %s", errWrite)
			} else if n != len(bytArr) {
				log.Warnf("non complete write got %v wrote only %v", len(bytArr), n)
			}
		}
	}()

	stop := make(chan struct{})
	go simsensor.Run(stop)

	addr := fmt.Sprintf(":%v", *pUiport)
	log.Infof("serving UI on %v", addr)
	var errRun error
	if *pHttpsCrt != "" {
		errRun = http.ListenAndServeTLS(addr, *pHttpsCrt, *pHttpsKey, newUIRouter(simsensor))
	} else {
		errRun = http.ListenAndServe(addr, newUIRouter(simsensor))
	}
	close(stop)
	log.Fatalf("UI server failed %s", errRun)
}
