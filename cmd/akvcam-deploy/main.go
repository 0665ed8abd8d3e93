// Command akvcam-deploy stages and packages the akvcam virtual camera driver.
package main

import "github.com/webcamoid/akvcam-deploy/cmd/akvcam-deploy/cmd"

func main() {
	cmd.Execute()
}
