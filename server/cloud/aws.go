// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/credentials/ec2rolecreds"
	"github.com/aws/aws-sdk-go/aws/ec2metadata"
	"github.com/aws/aws-sdk-go/aws/session"
)

const AWSProfile = "fractal"

// UserData is read from EC2 instance user data, one NAME=value per line.
type UserData struct {
	Domain        string
	Region        string
	Stage         string
	ServerSlots   int
	Route53ZoneID string
}

func getAWSSession(region string) (*session.Session, error) {
	var creds *credentials.Credentials
	if path, ok := sharedCredentialsPath(); ok {
		creds = credentials.NewSharedCredentials(path, AWSProfile)
	} else {
		metadata := ec2metadata.New(session.Must(session.NewSession()))
		creds = credentials.NewCredentials(&ec2rolecreds.EC2RoleProvider{Client: metadata})
	}

	return session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Credentials: creds,
	})
}

func sharedCredentialsPath() (string, bool) {
	usr, err := user.Current()
	if err != nil {
		return "", false
	}
	path := filepath.Join(usr.HomeDir, ".aws", "credentials")
	_, err = os.Stat(path)
	return path, err == nil
}

func getPublicIP() (net.IP, error) {
	client := http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://checkip.amazonaws.com")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	ipString := strings.TrimSpace(string(body))
	ip := net.ParseIP(ipString)
	if ip == nil {
		return nil, fmt.Errorf("could not parse IP address %q", ipString)
	}
	return ip, nil
}

func loadUserData() (*UserData, error) {
	client := http.Client{Timeout: time.Second / 2}
	response, err := client.Get("http://169.254.169.254/latest/user-data/")
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	return parseUserData(string(body))
}

func parseUserData(userData string) (data *UserData, err error) {
	data = &UserData{}

	for _, line := range strings.Split(userData, "\n") {
		equalsIndex := strings.IndexRune(line, '=')
		if equalsIndex == -1 {
			continue
		}
		name := strings.Trim(line[:equalsIndex], " ")
		value := strings.Trim(line[equalsIndex+1:], "\" \r")

		switch name {
		case "DOMAIN":
			data.Domain = value
		case "REGION":
			data.Region = value
		case "STAGE":
			data.Stage = value
		case "SERVER_SLOTS":
			if data.ServerSlots, err = strconv.Atoi(value); err != nil {
				return nil, fmt.Errorf("invalid SERVER_SLOTS: %w", err)
			}
		case "ROUTE53_ZONEID":
			data.Route53ZoneID = value
		}
	}

	switch {
	case data.Domain == "":
		return nil, errors.New("missing domain")
	case data.Region == "":
		return nil, errors.New("missing region")
	case data.Stage == "":
		return nil, errors.New("missing stage")
	case data.ServerSlots < 1:
		return nil, errors.New("missing server slots")
	case data.Route53ZoneID == "":
		return nil, errors.New("missing route53 zoneID")
	}
	return data, nil
}
