package pm1006

/*
SensorState is rolling history and last averages.
Owned by Monitor, consumers get copies (State() or published Averages)
*/
type SensorState struct {
	AvgPM25  uint16 //Truncated from float mean
	AvgDegC  float64
	AvgHumid float64
	Valid    bool //Averages are meaningful only after first complete cycle
	Cycles   int  //Completed averaging cycles

	measurements         Ring[uint16]
	degCMeasurements     Ring[float64]
	relHumidMeasurements Ring[float64] //Pushed together with degC, shares index
}

func (p *SensorState) MeasurementIdx() int {
	return p.measurements.Index()
}

func (p *SensorState) DhtMeasurementIdx() int {
	return p.degCMeasurements.Index()
}

func (p *SensorState) Measurements() [RINGSIZE]uint16 {
	return p.measurements.Values()
}

func (p *SensorState) DegCMeasurements() [RINGSIZE]float64 {
	return p.degCMeasurements.Values()
}

func (p *SensorState) RelHumidMeasurements() [RINGSIZE]float64 {
	return p.relHumidMeasurements.Values()
}

// addMeasurement returns true when pollutant cycle completed and averages were recalculated
func (p *SensorState) addMeasurement(pm25 uint16) bool {
	if !p.measurements.Push(pm25) {
		return false
	}
	p.AvgPM25 = uint16(p.measurements.Mean())
	p.AvgDegC = p.degCMeasurements.Mean()
	p.AvgHumid = p.relHumidMeasurements.Mean()
	p.Valid = true
	p.Cycles++
	return true
}

func (p *SensorState) addEnvironment(degC float64, relHumid float64) {
	p.degCMeasurements.Push(degC)
	p.relHumidMeasurements.Push(relHumid)
}

func (p *SensorState) Averages() Averages {
	return Averages{
		PM25:  p.AvgPM25,
		DegC:  p.AvgDegC,
		Humid: p.AvgHumid,
		Cycle: p.Cycles,
	}
}

func (p *SensorState) Reset() {
	*p = SensorState{}
}
