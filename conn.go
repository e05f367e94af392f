/*
Connection interfaces

ByteSource is what the frame receiver reads from. Different implementations are made
for linux (LinuxConn) and for tests/simulation (anything that can report buffered
bytes).
*/
package pm1006

type ByteSource interface {
	Available() (int, error) //How many bytes can be read right now without blocking
	ReadByte() (byte, error) //Expected to succeed when Available reported more than zero
}

/*
EnvSensor is temperature/humidity peripheral (DHT11 on original hardware).
Read triggers measurement, values are queried separately after successful read
*/
type EnvSensor interface {
	Read() error
	Temperature() float64 //Celsius
	Humidity() float64    //Relative humidity %
}
