package biometric

import (
	"context"
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

// Command bytes, fixed by the vendor protocol. Responses acknowledge with
// cmd|0x80.
const (
	cmdGetDeviceInfo   = 0x30
	cmdSetDeviceInfo   = 0x31
	cmdGetTime         = 0x32
	cmdSetTime         = 0x33
	cmdGetNetwork      = 0x34
	cmdSetNetwork      = 0x35
	cmdDownloadRecords = 0x40
	cmdClearRecords    = 0x41
)

const (
	deviceInfoSize = 18
	networkSize    = 26
	dateTimeSize   = 6
)

// DeviceInfo mirrors the terminal's settings block.
type DeviceInfo struct {
	FirmwareVersion string // up to 8 ASCII bytes
	Password        string // up to 6 ASCII bytes
	SleepMinutes    uint8
	Volume          uint8
	Language        uint8
	DateFormat      uint8
}

// NetworkConfig mirrors the terminal's network parameter block.
type NetworkConfig struct {
	IP         [4]byte
	SubnetMask [4]byte
	Gateway    [4]byte
	ServerIP   [4]byte
	MAC        [6]byte
	Port       uint16
	Mode       uint8
	DHCPLimit  uint8
}

// GetDeviceInfo reads the terminal's settings block.
func (c *Client) GetDeviceInfo(ctx context.Context) (DeviceInfo, error) {
	data, err := c.roundTrip(ctx, cmdGetDeviceInfo, nil)
	if err != nil {
		return DeviceInfo{}, err
	}
	if len(data) != deviceInfoSize {
		return DeviceInfo{}, fmt.Errorf("%w: device info block is %d bytes", ErrMalformedFrame, len(data))
	}

	return DeviceInfo{
		FirmwareVersion: strings.TrimRight(string(data[0:8]), "\x00"),
		Password:        strings.TrimRight(string(data[8:14]), "\x00"),
		SleepMinutes:    data[14],
		Volume:          data[15],
		Language:        data[16],
		DateFormat:      data[17],
	}, nil
}

// SetDeviceInfo writes the terminal's settings block.
func (c *Client) SetDeviceInfo(ctx context.Context, info DeviceInfo) error {
	if len(info.FirmwareVersion) > 8 {
		return fmt.Errorf("firmware version %q exceeds 8 bytes", info.FirmwareVersion)
	}
	if len(info.Password) > 6 {
		return fmt.Errorf("password exceeds 6 bytes")
	}

	payload := make([]byte, deviceInfoSize)
	copy(payload[0:8], info.FirmwareVersion)
	copy(payload[8:14], info.Password)
	payload[14] = info.SleepMinutes
	payload[15] = info.Volume
	payload[16] = info.Language
	payload[17] = info.DateFormat

	_, err := c.roundTrip(ctx, cmdSetDeviceInfo, payload)
	return err
}

// GetTime reads the terminal clock.
func (c *Client) GetTime(ctx context.Context) (time.Time, error) {
	data, err := c.roundTrip(ctx, cmdGetTime, nil)
	if err != nil {
		return time.Time{}, err
	}
	if len(data) != dateTimeSize {
		return time.Time{}, fmt.Errorf("%w: datetime block is %d bytes", ErrMalformedFrame, len(data))
	}
	return decodeDateTime(data), nil
}

// SetTime writes the terminal clock.
func (c *Client) SetTime(ctx context.Context, t time.Time) error {
	payload, err := encodeDateTime(t)
	if err != nil {
		return err
	}
	_, err = c.roundTrip(ctx, cmdSetTime, payload)
	return err
}

// GetNetworkConfig reads the terminal's network parameters.
func (c *Client) GetNetworkConfig(ctx context.Context) (NetworkConfig, error) {
	data, err := c.roundTrip(ctx, cmdGetNetwork, nil)
	if err != nil {
		return NetworkConfig{}, err
	}
	if len(data) != networkSize {
		return NetworkConfig{}, fmt.Errorf("%w: network block is %d bytes", ErrMalformedFrame, len(data))
	}

	var cfg NetworkConfig
	copy(cfg.IP[:], data[0:4])
	copy(cfg.SubnetMask[:], data[4:8])
	copy(cfg.Gateway[:], data[8:12])
	copy(cfg.ServerIP[:], data[12:16])
	copy(cfg.MAC[:], data[16:22])
	cfg.Port = binary.BigEndian.Uint16(data[22:24])
	cfg.Mode = data[24]
	cfg.DHCPLimit = data[25]
	return cfg, nil
}

// SetNetworkConfig writes the terminal's network parameters.
func (c *Client) SetNetworkConfig(ctx context.Context, cfg NetworkConfig) error {
	payload := make([]byte, networkSize)
	copy(payload[0:4], cfg.IP[:])
	copy(payload[4:8], cfg.SubnetMask[:])
	copy(payload[8:12], cfg.Gateway[:])
	copy(payload[12:16], cfg.ServerIP[:])
	copy(payload[16:22], cfg.MAC[:])
	binary.BigEndian.PutUint16(payload[22:24], cfg.Port)
	payload[24] = cfg.Mode
	payload[25] = cfg.DHCPLimit

	_, err := c.roundTrip(ctx, cmdSetNetwork, payload)
	return err
}

// ClearRecords instructs the terminal to drop its buffered attendance
// records. Called once per successfully reconciled batch so records are not
// re-delivered on the next poll.
func (c *Client) ClearRecords(ctx context.Context) error {
	_, err := c.roundTrip(ctx, cmdClearRecords, nil)
	return err
}

// decodeDateTime decodes the 6-byte device datetime: year offset from 2000,
// month, day, hour, minute, second.
func decodeDateTime(b []byte) time.Time {
	return time.Date(2000+int(b[0]), time.Month(b[1]), int(b[2]),
		int(b[3]), int(b[4]), int(b[5]), 0, time.Local)
}

// encodeDateTime encodes a time into the 6-byte device datetime.
func encodeDateTime(t time.Time) ([]byte, error) {
	if t.Year() < 2000 || t.Year() > 2255 {
		return nil, fmt.Errorf("year %d is outside the device range 2000-2255", t.Year())
	}
	return []byte{
		byte(t.Year() - 2000),
		byte(t.Month()),
		byte(t.Day()),
		byte(t.Hour()),
		byte(t.Minute()),
		byte(t.Second()),
	}, nil
}
